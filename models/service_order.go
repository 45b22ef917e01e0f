package models

import "time"

// Status possíveis de uma ordem de serviço.
const (
	OrderStatusOpen       = "open"
	OrderStatusInProgress = "in_progress"
	OrderStatusDone       = "done"
	OrderStatusDelivered  = "delivered"
)

// ServiceOrder é uma ordem de serviço com itens e imagens em jsonb.
// A renderização do PDF acontece fora deste serviço; PDFFile guarda apenas o
// nome do arquivo gerado.
type ServiceOrder struct {
	BaseModel
	OrderNumber string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	ClientID    uint       `gorm:"index;not null" json:"client_id"`
	Client      Client     `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`
	Status      string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Items       JSONSlice  `gorm:"type:jsonb" json:"items"`   // [{description, quantity, unit_price}]
	Images      JSONSlice  `gorm:"type:jsonb" json:"images"`  // nomes de arquivos já armazenados
	Total       float64    `gorm:"type:numeric(12,2);default:0" json:"total"`
	SignedAt    *time.Time `json:"signed_at"`
	PDFFile     string     `gorm:"type:varchar(255)" json:"pdf_file"`
}
