package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound registro inexistente (ou removido por soft delete).
var ErrNotFound = errors.New("registro não encontrado")

// ErrConflict violação de sobreposição de horário detectada na escrita.
// É a guarda autoritativa contra corrida entre a checagem de disponibilidade
// e o insert.
var ErrConflict = errors.New("conflito de horário para a mesma categoria")

type txKey struct{}

// ContextWithTx propaga uma transação GORM pelo contexto, para compor
// repositórios dentro de uma mesma transação.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// txFromContext recupera a transação, se houver.
func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}
