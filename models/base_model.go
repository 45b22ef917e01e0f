package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey chave de contexto do usuário responsável pela operação.
const ContextUserIDKey contextKey = "user_id"

// ContextWithUserID anexa o usuário responsável ao contexto; os hooks de
// auditoria do BaseModel o recuperam na escrita.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}

// UserIDFromContext extrai o usuário responsável, se presente.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(uint)
	return id, ok
}

// BaseModel campos comuns a todas as entidades persistidas: chave, carimbo de
// criação/atualização, soft delete e colunas de auditoria.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `json:"created_by,omitempty"`
	UpdatedBy *uint          `json:"updated_by,omitempty"`
	DeletedBy *uint          `json:"-"`
}

// BeforeCreate preenche as colunas de auditoria a partir do contexto da
// transação, quando o chamador o informou.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		b.CreatedBy = &id
		b.UpdatedBy = &id
	}
	return nil
}

// BeforeUpdate registra o autor da alteração, quando conhecido.
func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		b.UpdatedBy = &id
	}
	return nil
}
