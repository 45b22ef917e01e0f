package repositories

import (
	"context"
	"errors"
	"time"

	"agendei.link/configs/configslog"
	"agendei.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppointmentFilter filtros da listagem de agendamentos.
type AppointmentFilter struct {
	StartFrom   *time.Time
	StartTo     *time.Time
	AgendaType  *models.AgendaType
	PhoneNumber string
	OrderDesc   bool
	Limit       int
	Offset      int
}

// IAppointmentRepository persistência e consultas de conflito da tabela
// appointments.
type IAppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*models.Appointment, error)
	Delete(ctx context.Context, id uint) error
	FindConflicts(ctx context.Context, start, end time.Time, agendaType models.AgendaType, excludeID uint) ([]models.Appointment, error)
	FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.Appointment, error)
	FindAll(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, int64, error)
}

// AppointmentRepository implementa IAppointmentRepository sobre GORM.
type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository cria o repositório sobre a conexão informada.
func NewAppointmentRepository(db *gorm.DB) IAppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// conflictQuery aplica a sobreposição estrita de intervalo semiaberto
// [start, end) restrita à categoria (tolerante a grafias legadas no banco).
// Agendamentos encostados (end == start) não conflitam.
func conflictQuery(db *gorm.DB, start, end time.Time, agendaType models.AgendaType, excludeID uint) *gorm.DB {
	q := db.Model(&models.Appointment{}).
		Where("agenda_type IN ?", agendaType.Synonyms()).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

// FindConflicts retorna os agendamentos da mesma categoria que se sobrepõem
// ao intervalo, ordenados por início.
func (r *AppointmentRepository) FindConflicts(ctx context.Context, start, end time.Time, agendaType models.AgendaType, excludeID uint) ([]models.Appointment, error) {
	var conflicts []models.Appointment
	err := conflictQuery(r.getDB(ctx), start, end, agendaType, excludeID).
		Order("start_time ASC").
		Find(&conflicts).Error
	if err != nil {
		configslog.Log.Error("AppointmentRepository.FindConflicts: erro de banco",
			zap.Time("start", start), zap.Time("end", end),
			zap.String("agenda_type", string(agendaType)), zap.Error(err))
		return nil, err
	}
	return conflicts, nil
}

// Create insere o agendamento re-verificando conflitos dentro da mesma
// transação do insert. A checagem de disponibilidade feita antes pelo chamador
// é só conforto de UX; a guarda contra corrida é esta.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment == nil || !appointment.StartTime.Before(appointment.EndTime) {
		return errors.New("agendamento inválido: início deve anteceder o fim")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := conflictQuery(tx, appointment.StartTime, appointment.EndTime, appointment.AgendaType, 0).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		if err := tx.Create(appointment).Error; err != nil {
			configslog.Log.Error("AppointmentRepository.Create: erro de banco", zap.Error(err))
			return err
		}
		return nil
	})
}

// FindByID busca por chave primária.
func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var appointment models.Appointment
	err := r.getDB(ctx).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("AppointmentRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &appointment, nil
}

// Update atualização parcial: campos não informados mantêm o valor anterior;
// updated_at é sempre renovado.
func (r *AppointmentRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.Appointment, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var updated models.Appointment
	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		fields["updated_at"] = time.Now().UTC()
		if err := tx.Model(&updated).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("AppointmentRepository.Update: erro de banco", zap.Uint("id", id), zap.Error(err))
		}
		return nil, err
	}
	return &updated, nil
}

// Delete remove o agendamento (soft delete via BaseModel).
func (r *AppointmentRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	result := r.getDB(ctx).Delete(&models.Appointment{}, id)
	if result.Error != nil {
		configslog.Log.Error("AppointmentRepository.Delete: erro de banco", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindLatestByPhone último agendamento criado para o telefone informado.
func (r *AppointmentRepository) FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.Appointment, error) {
	if phoneNumber == "" {
		return nil, ErrNotFound
	}
	var appointment models.Appointment
	err := r.getDB(ctx).
		Where("phone_number = ?", phoneNumber).
		Order("created_at DESC").
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("AppointmentRepository.FindLatestByPhone: erro de banco",
			zap.String("phone", phoneNumber), zap.Error(err))
		return nil, err
	}
	return &appointment, nil
}

// FindAll lista com filtro de intervalo, categoria e telefone.
func (r *AppointmentRepository) FindAll(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, int64, error) {
	query := r.getDB(ctx).Model(&models.Appointment{})
	if filter.StartFrom != nil {
		query = query.Where("start_time >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_time < ?", *filter.StartTo)
	}
	if filter.AgendaType != nil {
		query = query.Where("agenda_type IN ?", filter.AgendaType.Synonyms())
	}
	if filter.PhoneNumber != "" {
		query = query.Where("phone_number = ?", filter.PhoneNumber)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("AppointmentRepository.FindAll: erro no count", zap.Error(err))
		return nil, 0, err
	}

	order := "start_time ASC"
	if filter.OrderDesc {
		order = "start_time DESC"
	}
	query = query.Order(order)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		configslog.Log.Error("AppointmentRepository.FindAll: erro de banco", zap.Error(err))
		return nil, 0, err
	}
	return appointments, total, nil
}

var _ IAppointmentRepository = (*AppointmentRepository)(nil)
