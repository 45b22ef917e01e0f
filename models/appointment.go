package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment é um agendamento confirmado. StartTime/EndTime são instantes
// absolutos derivados sempre da interpretação no fuso fixo do negócio.
// Invariante: StartTime < EndTime.
type Appointment struct {
	BaseModel
	// Presente apenas após a escrita no calendário externo ter sucesso.
	CalendarEventID *string    `gorm:"type:varchar(255);index" json:"calendar_event_id"`
	Summary         string     `gorm:"type:varchar(255);not null" json:"summary"`
	Description     string     `gorm:"type:text" json:"description"`
	StartTime       time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time  `gorm:"not null" json:"end_time"`
	AgendaType      AgendaType `gorm:"type:varchar(20);not null;default:'in_store';index" json:"agenda_type"`
	ClientName      string     `gorm:"type:varchar(150)" json:"client_name"`
	PhoneNumber     string     `gorm:"type:varchar(30);index" json:"phone_number"`
}

// BeforeSave normaliza a categoria também na borda de escrita, para que
// nenhuma grafia legada entre no banco por qualquer caminho.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	normalized, _ := NormalizeAgendaType(string(a.AgendaType))
	a.AgendaType = normalized
	return nil
}

// AfterFind normaliza categorias legadas gravadas historicamente.
func (a *Appointment) AfterFind(tx *gorm.DB) error {
	normalized, _ := NormalizeAgendaType(string(a.AgendaType))
	a.AgendaType = normalized
	return nil
}
