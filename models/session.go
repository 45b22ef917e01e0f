package models

// Estados da máquina de conversa. Nenhum estado é terminal: uma nova mensagem
// pode sempre reabrir a coleta de informações ou o agendamento.
const (
	SessionStateInitial        = "initial"
	SessionStateClassifying    = "classifying"
	SessionStateCollectingInfo = "collecting_info"
	SessionStateWaitingPhotos  = "waiting_photos"
	SessionStateScheduling     = "scheduling"
	SessionStateCompleted      = "completed"
)

// Chaves conhecidas dentro de Session.Metadata.
const (
	MetaHistory           = "history"             // histórico acumulado de turnos
	MetaServiceType       = "service_type"        // slot-filling: tipo de serviço
	MetaLastAppointmentID = "last_appointment_id" // último agendamento confirmado
)

// Session guarda o estado conversacional de um número de telefone.
// Criada de forma preguiçosa na primeira mensagem; nunca removida pelo fluxo
// de chat (histórico append-only).
type Session struct {
	BaseModel
	PhoneNumber string  `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone_number"`
	State       string  `gorm:"type:varchar(30);not null;default:'initial'" json:"state"`
	Metadata    JSONMap `gorm:"type:jsonb" json:"metadata"`
}
