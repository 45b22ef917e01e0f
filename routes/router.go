package routes

import (
	api_handlers "agendei.link/handlers/api"
	"agendei.link/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Handlers conjunto de handlers injetados pelo main.
type Handlers struct {
	Appointments  *api_handlers.AppointmentHandler
	Clients       *api_handlers.ClientHandler
	ServiceOrders *api_handlers.ServiceOrderHandler
	Webhook       *api_handlers.WebhookHandler

	// Users + APIAuthEnabled ligam o HTTP Basic nas rotas /api.
	Users          repositories.IUserRepository
	APIAuthEnabled bool
}

// SetupRoutes registra middlewares globais e todas as rotas da aplicação.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Use(recoverMiddleware.New()) // captura panics
	app.Use(logger.New())            // log de requisições

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	registerAPIRoutes(app, h)
	registerWebhookRoutes(app, h)

	// 404 por último, para qualquer rota não mapeada.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "recurso não encontrado"})
}
