package api

import (
	"agendei.link/models"
	"agendei.link/pkg/queryparams"
	"agendei.link/services"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler controllers JSON do cadastro de clientes.
type ClientHandler struct {
	service services.IClientService
}

// NewClientHandler cria o handler com o serviço informado.
func NewClientHandler(service services.IClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// ListClients GET /api/clients
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	result, err := h.service.GetClients(c.UserContext(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetClient GET /api/clients/:id
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	client, err := h.service.GetClientByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// CreateClient POST /api/clients
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var client models.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}
	if err := h.service.CreateClient(c.UserContext(), &client); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// UpdateClient PUT /api/clients/:id
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var data models.Client
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}
	updated, err := h.service.UpdateClient(c.UserContext(), id, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// DeleteClient DELETE /api/clients/:id
func (h *ClientHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.DeleteClient(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
