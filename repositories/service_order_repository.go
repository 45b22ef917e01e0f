package repositories

import (
	"context"
	"errors"

	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IServiceOrderRepository persistência das ordens de serviço.
type IServiceOrderRepository interface {
	Create(ctx context.Context, order *models.ServiceOrder) error
	FindByID(ctx context.Context, id uint) (*models.ServiceOrder, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.ServiceOrder, int64, error)
	Update(ctx context.Context, order *models.ServiceOrder) error
	Delete(ctx context.Context, id uint) error
	CountThisYear(ctx context.Context) (int64, error)
}

// ServiceOrderRepository implementa IServiceOrderRepository sobre GORM.
type ServiceOrderRepository struct {
	db *gorm.DB
}

// NewServiceOrderRepository cria o repositório sobre a conexão informada.
func NewServiceOrderRepository(db *gorm.DB) IServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

func (r *ServiceOrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *ServiceOrderRepository) Create(ctx context.Context, order *models.ServiceOrder) error {
	if order == nil || order.ClientID == 0 || order.OrderNumber == "" {
		return errors.New("ordem de serviço inválida: cliente e número são obrigatórios")
	}
	return r.getDB(ctx).Create(order).Error
}

func (r *ServiceOrderRepository) FindByID(ctx context.Context, id uint) (*models.ServiceOrder, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var order models.ServiceOrder
	err := r.getDB(ctx).Preload("Client").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ServiceOrderRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (r *ServiceOrderRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.ServiceOrder, int64, error) {
	query := r.getDB(ctx).Model(&models.ServiceOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("ServiceOrderRepository.FindAllPaginated: erro no count", zap.Error(err))
		return nil, 0, err
	}

	sortBy := params.SortBy
	if sortBy != "order_number" && sortBy != "created_at" && sortBy != "status" && sortBy != "id" {
		sortBy = "created_at"
	}
	var orders []models.ServiceOrder
	err := query.Preload("Client").
		Order(sortBy + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&orders).Error
	if err != nil {
		configslog.Log.Error("ServiceOrderRepository.FindAllPaginated: erro de banco", zap.Error(err))
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *ServiceOrderRepository) Update(ctx context.Context, order *models.ServiceOrder) error {
	if order == nil || order.ID == 0 {
		return errors.New("ordem de serviço inválida para atualizar")
	}
	return r.getDB(ctx).Save(order).Error
}

func (r *ServiceOrderRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	result := r.getDB(ctx).Delete(&models.ServiceOrder{}, id)
	if result.Error != nil {
		configslog.Log.Error("ServiceOrderRepository.Delete: erro de banco", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountThisYear usado para compor o número sequencial OS-AAAA-NNNN.
func (r *ServiceOrderRepository) CountThisYear(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.ServiceOrder{}).
		Where("EXTRACT(YEAR FROM created_at) = EXTRACT(YEAR FROM NOW())").
		Count(&count).Error
	if err != nil {
		configslog.Log.Error("ServiceOrderRepository.CountThisYear: erro de banco", zap.Error(err))
		return 0, err
	}
	return count, nil
}

var _ IServiceOrderRepository = (*ServiceOrderRepository)(nil)
