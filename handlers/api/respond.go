package api

import (
	"errors"

	"agendei.link/configs/configslog"
	"agendei.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError converte o erro de serviço no status HTTP e payload adequados.
// Erros inesperados nunca vazam para o chamador: viram 500 genérico com log.
func respondError(c *fiber.Ctx, err error) error {
	var conflictErr *services.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":          services.ErrBookingConflict.Error(),
			"conflict_count": conflictErr.ConflictCount,
			"alternatives":   conflictErr.Alternatives,
		})
	case errors.Is(err, services.ErrBookingConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBookingValidation),
		errors.Is(err, services.ErrClientInvalidInput),
		errors.Is(err, services.ErrOrderInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBookingOutsideHours):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBookingCalendarWrite):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		configslog.Log.Error("Erro interno não mapeado", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erro interno"})
	}
}

// parseID lê o :id da rota.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("id inválido")
	}
	return uint(id), nil
}
