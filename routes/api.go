package routes

import "github.com/gofiber/fiber/v2"

// registerAPIRoutes rotas JSON consumidas pela UI administrativa.
func registerAPIRoutes(app *fiber.App, h Handlers) {
	apiGroup := app.Group("/api")
	if h.APIAuthEnabled && h.Users != nil {
		apiGroup.Use(apiAuthMiddleware(h.Users))
	}

	// Agendamentos e disponibilidade. As rotas fixas vêm antes de /:id.
	apiGroup.Get("/appointments/availability", h.Appointments.CheckAvailability)
	apiGroup.Get("/appointments/suggestions", h.Appointments.SuggestAlternatives)
	apiGroup.Get("/appointments", h.Appointments.ListAppointments)
	apiGroup.Post("/appointments", h.Appointments.CreateAppointment)
	apiGroup.Get("/appointments/:id", h.Appointments.GetAppointment)
	apiGroup.Put("/appointments/:id", h.Appointments.UpdateAppointment)
	apiGroup.Delete("/appointments/:id", h.Appointments.DeleteAppointment)

	// Cadastro de clientes.
	apiGroup.Get("/clients", h.Clients.ListClients)
	apiGroup.Post("/clients", h.Clients.CreateClient)
	apiGroup.Get("/clients/:id", h.Clients.GetClient)
	apiGroup.Put("/clients/:id", h.Clients.UpdateClient)
	apiGroup.Delete("/clients/:id", h.Clients.DeleteClient)

	// Ordens de serviço.
	apiGroup.Get("/service-orders", h.ServiceOrders.ListOrders)
	apiGroup.Post("/service-orders", h.ServiceOrders.CreateOrder)
	apiGroup.Get("/service-orders/:id", h.ServiceOrders.GetOrder)
	apiGroup.Put("/service-orders/:id", h.ServiceOrders.UpdateOrder)
	apiGroup.Delete("/service-orders/:id", h.ServiceOrders.DeleteOrder)
}

// registerWebhookRoutes rota de entrada do canal de mensagens.
func registerWebhookRoutes(app *fiber.App, h Handlers) {
	app.Post("/webhook/whatsapp", h.Webhook.HandleInbound)
}
