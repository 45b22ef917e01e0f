package services

import (
	"context"
	"errors"
	"fmt"

	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/queryparams"
	"agendei.link/repositories"

	"go.uber.org/zap"
)

// ClientServiceError erros do cadastro de clientes.
type ClientServiceError string

func (e ClientServiceError) Error() string { return string(e) }

const (
	ErrClientNotFound     ClientServiceError = "cliente não encontrado"
	ErrClientInvalidInput ClientServiceError = "dados de cliente inválidos"
)

// IClientService CRUD fino do cadastro de clientes.
type IClientService interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id uint) (*models.Client, error)
	GetClients(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateClient(ctx context.Context, id uint, data models.Client) (*models.Client, error)
	DeleteClient(ctx context.Context, id uint) error
}

// ClientService implementa IClientService.
type ClientService struct {
	repo repositories.IClientRepository
}

// NewClientService cria o serviço com o repositório informado.
func NewClientService(repo repositories.IClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) CreateClient(ctx context.Context, client *models.Client) error {
	if client == nil || client.Name == "" {
		return fmt.Errorf("%w: nome é obrigatório", ErrClientInvalidInput)
	}
	if err := s.repo.Create(ctx, client); err != nil {
		configslog.Log.Error("CreateClient falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Cliente criado: ID %d, %s", client.ID, client.Name)
	return nil
}

func (s *ClientService) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) GetClients(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	clients, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: clients,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id uint, data models.Client) (*models.Client, error) {
	existing, err := s.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = data.Name
	existing.PhoneNumber = data.PhoneNumber
	existing.Email = data.Email
	existing.Address = data.Address
	existing.Notes = data.Notes
	if err := s.repo.Update(ctx, existing); err != nil {
		configslog.Log.Error("UpdateClient falhou", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return existing, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	configslog.SLog.Infof("Cliente removido: ID %d", id)
	return nil
}

var _ IClientService = (*ClientService)(nil)
