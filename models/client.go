package models

// Client cadastro de cliente do negócio. PhoneNumber não é chave única:
// serve de vínculo best-effort com sessões e agendamentos.
type Client struct {
	BaseModel
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	PhoneNumber string `gorm:"type:varchar(30);index" json:"phone_number"`
	Email       string `gorm:"type:varchar(150)" json:"email"`
	Address     string `gorm:"type:varchar(255)" json:"address"`
	Notes       string `gorm:"type:text" json:"notes"`
}
