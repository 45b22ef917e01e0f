package api

import (
	"agendei.link/models"
	"agendei.link/pkg/queryparams"
	"agendei.link/services"

	"github.com/gofiber/fiber/v2"
)

// ServiceOrderHandler controllers JSON das ordens de serviço.
type ServiceOrderHandler struct {
	service services.IServiceOrderService
}

// NewServiceOrderHandler cria o handler com o serviço informado.
func NewServiceOrderHandler(service services.IServiceOrderService) *ServiceOrderHandler {
	return &ServiceOrderHandler{service: service}
}

// ListOrders GET /api/service-orders
func (h *ServiceOrderHandler) ListOrders(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	result, err := h.service.GetOrders(c.UserContext(), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetOrder GET /api/service-orders/:id
func (h *ServiceOrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	order, err := h.service.GetOrderByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// CreateOrder POST /api/service-orders
func (h *ServiceOrderHandler) CreateOrder(c *fiber.Ctx) error {
	var order models.ServiceOrder
	if err := c.BodyParser(&order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}
	if err := h.service.CreateOrder(c.UserContext(), &order); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrder PUT /api/service-orders/:id
func (h *ServiceOrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var data models.ServiceOrder
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}
	updated, err := h.service.UpdateOrder(c.UserContext(), id, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// DeleteOrder DELETE /api/service-orders/:id
func (h *ServiceOrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.DeleteOrder(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
