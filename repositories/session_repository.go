package repositories

import (
	"context"
	"errors"

	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ISessionRepository persistência das sessões de conversa (uma por telefone).
type ISessionRepository interface {
	FindOrCreateByPhone(ctx context.Context, phoneNumber string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
}

// SessionRepository implementa ISessionRepository sobre GORM.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository cria o repositório sobre a conexão informada.
func NewSessionRepository(db *gorm.DB) ISessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// FindOrCreateByPhone obtém a sessão do número, criando-a de forma preguiçosa
// na primeira mensagem.
func (r *SessionRepository) FindOrCreateByPhone(ctx context.Context, phoneNumber string) (*models.Session, error) {
	if phoneNumber == "" {
		return nil, errors.New("telefone vazio")
	}
	var session models.Session
	err := r.getDB(ctx).Where("phone_number = ?", phoneNumber).First(&session).Error
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		configslog.Log.Error("SessionRepository.FindOrCreateByPhone: erro de banco",
			zap.String("phone", phoneNumber), zap.Error(err))
		return nil, err
	}

	session = models.Session{
		PhoneNumber: phoneNumber,
		State:       models.SessionStateInitial,
		Metadata:    models.JSONMap{},
	}
	if err := r.getDB(ctx).Create(&session).Error; err != nil {
		configslog.Log.Error("SessionRepository.FindOrCreateByPhone: erro ao criar sessão",
			zap.String("phone", phoneNumber), zap.Error(err))
		return nil, err
	}
	return &session, nil
}

// Save persiste estado e metadata após cada turno.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	if session == nil || session.ID == 0 {
		return errors.New("sessão inválida para salvar")
	}
	if err := r.getDB(ctx).Save(session).Error; err != nil {
		configslog.Log.Error("SessionRepository.Save: erro de banco",
			zap.Uint("id", session.ID), zap.Error(err))
		return err
	}
	return nil
}

var _ ISessionRepository = (*SessionRepository)(nil)
