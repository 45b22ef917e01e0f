package models

// User conta administrativa. O seeder garante a existência do usuário de
// sistema; as colunas de auditoria do BaseModel apontam para esta tabela.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsSystem     bool   `gorm:"default:false;index" json:"is_system"`
}
