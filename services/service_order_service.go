package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/queryparams"
	"agendei.link/repositories"

	"go.uber.org/zap"
)

// ServiceOrderServiceError erros das ordens de serviço.
type ServiceOrderServiceError string

func (e ServiceOrderServiceError) Error() string { return string(e) }

const (
	ErrOrderNotFound     ServiceOrderServiceError = "ordem de serviço não encontrada"
	ErrOrderInvalidInput ServiceOrderServiceError = "dados de ordem de serviço inválidos"
)

var validOrderStatuses = map[string]bool{
	models.OrderStatusOpen:       true,
	models.OrderStatusInProgress: true,
	models.OrderStatusDone:       true,
	models.OrderStatusDelivered:  true,
}

// IServiceOrderService CRUD fino das ordens de serviço.
type IServiceOrderService interface {
	CreateOrder(ctx context.Context, order *models.ServiceOrder) error
	GetOrderByID(ctx context.Context, id uint) (*models.ServiceOrder, error)
	GetOrders(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateOrder(ctx context.Context, id uint, data models.ServiceOrder) (*models.ServiceOrder, error)
	DeleteOrder(ctx context.Context, id uint) error
}

// ServiceOrderService implementa IServiceOrderService.
type ServiceOrderService struct {
	repo    repositories.IServiceOrderRepository
	clients repositories.IClientRepository
}

// NewServiceOrderService cria o serviço com os repositórios informados.
func NewServiceOrderService(repo repositories.IServiceOrderRepository, clients repositories.IClientRepository) *ServiceOrderService {
	return &ServiceOrderService{repo: repo, clients: clients}
}

// CreateOrder valida o cliente, gera o número sequencial OS-AAAA-NNNN e
// persiste.
func (s *ServiceOrderService) CreateOrder(ctx context.Context, order *models.ServiceOrder) error {
	if order == nil || order.ClientID == 0 {
		return fmt.Errorf("%w: cliente é obrigatório", ErrOrderInvalidInput)
	}
	if _, err := s.clients.FindByID(ctx, order.ClientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: cliente inexistente", ErrOrderInvalidInput)
		}
		return err
	}
	if order.Status == "" {
		order.Status = models.OrderStatusOpen
	}
	if !validOrderStatuses[order.Status] {
		return fmt.Errorf("%w: status desconhecido %q", ErrOrderInvalidInput, order.Status)
	}
	if order.OrderNumber == "" {
		count, err := s.repo.CountThisYear(ctx)
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("OS-%d-%04d", time.Now().Year(), count+1)
	}
	if err := s.repo.Create(ctx, order); err != nil {
		configslog.Log.Error("CreateOrder falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Ordem de serviço criada: %s (cliente %d)", order.OrderNumber, order.ClientID)
	return nil
}

func (s *ServiceOrderService) GetOrderByID(ctx context.Context, id uint) (*models.ServiceOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *ServiceOrderService) GetOrders(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	orders, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: orders,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

func (s *ServiceOrderService) UpdateOrder(ctx context.Context, id uint, data models.ServiceOrder) (*models.ServiceOrder, error) {
	existing, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data.Status != "" {
		if !validOrderStatuses[data.Status] {
			return nil, fmt.Errorf("%w: status desconhecido %q", ErrOrderInvalidInput, data.Status)
		}
		existing.Status = data.Status
	}
	if data.Items != nil {
		existing.Items = data.Items
	}
	if data.Images != nil {
		existing.Images = data.Images
	}
	if data.Total != 0 {
		existing.Total = data.Total
	}
	if data.SignedAt != nil {
		existing.SignedAt = data.SignedAt
	}
	if data.PDFFile != "" {
		existing.PDFFile = data.PDFFile
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		configslog.Log.Error("UpdateOrder falhou", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return existing, nil
}

func (s *ServiceOrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	configslog.SLog.Infof("Ordem de serviço removida: ID %d", id)
	return nil
}

var _ IServiceOrderService = (*ServiceOrderService)(nil)
