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

// IClientRepository persistência do cadastro de clientes.
type IClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*models.Client, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
}

// ClientRepository implementa IClientRepository sobre GORM.
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository cria o repositório sobre a conexão informada.
func NewClientRepository(db *gorm.DB) IClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if client == nil || client.Name == "" {
		return errors.New("cliente inválido: nome é obrigatório")
	}
	return r.getDB(ctx).Create(client).Error
}

func (r *ClientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var client models.Client
	err := r.getDB(ctx).First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ClientRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindByPhone(ctx context.Context, phoneNumber string) (*models.Client, error) {
	if phoneNumber == "" {
		return nil, ErrNotFound
	}
	var client models.Client
	err := r.getDB(ctx).Where("phone_number = ?", phoneNumber).Order("created_at DESC").First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ClientRepository.FindByPhone: erro de banco",
			zap.String("phone", phoneNumber), zap.Error(err))
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Client, int64, error) {
	query := r.getDB(ctx).Model(&models.Client{})
	if params.Name != "" {
		query = query.Where("name ILIKE ?", "%"+params.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("ClientRepository.FindAllPaginated: erro no count", zap.Error(err))
		return nil, 0, err
	}

	sortBy := params.SortBy
	if sortBy != "name" && sortBy != "created_at" && sortBy != "id" {
		sortBy = "created_at"
	}
	var clients []models.Client
	err := query.Order(sortBy + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&clients).Error
	if err != nil {
		configslog.Log.Error("ClientRepository.FindAllPaginated: erro de banco", zap.Error(err))
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	if client == nil || client.ID == 0 {
		return errors.New("cliente inválido para atualizar")
	}
	return r.getDB(ctx).Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	result := r.getDB(ctx).Delete(&models.Client{}, id)
	if result.Error != nil {
		configslog.Log.Error("ClientRepository.Delete: erro de banco", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IClientRepository = (*ClientRepository)(nil)
