package main

import (
	"os"
	"os/signal"
	"syscall"

	"agendei.link/configs"
	"agendei.link/configs/configsdatabase"
	"agendei.link/configs/configslog"
	api_handlers "agendei.link/handlers/api"
	"agendei.link/pkg/assistant"
	"agendei.link/pkg/googlecalendar"
	"agendei.link/pkg/timeparse"
	"agendei.link/pkg/whatsapp"
	"agendei.link/repositories"
	"agendei.link/routes"
	"agendei.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.Load()
	timeparse.SetZoneOffset(cfg.Booking.TimezoneOffsetHours)

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	db := configsdatabase.GetDB()

	// Colaboradores externos: construídos explicitamente no boot, nunca
	// singletons preguiçosos.
	calendar, err := googlecalendar.NewService(cfg.Calendar)
	if err != nil {
		configslog.Log.Fatal("Falha ao inicializar o gateway de calendário", zap.Error(err))
	}
	if !calendar.Configured() {
		configslog.SLog.Warn("Google Calendar não configurado; agendamentos seguirão a política REQUIRE_CALENDAR_FOR_BOOKING")
	}
	aiClient := assistant.NewOpenAIClient(cfg.OpenAI)
	sender := whatsapp.NewClient(cfg.WhatsApp)

	// Repositórios e serviços.
	appointmentRepo := repositories.NewAppointmentRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	orderRepo := repositories.NewServiceOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	availabilityService := services.NewAvailabilityService(appointmentRepo, calendar, cfg.Booking)
	bookingService := services.NewBookingService(appointmentRepo, availabilityService, calendar, cfg.Booking)
	conversationService := services.NewConversationService(sessionRepo, appointmentRepo, bookingService, aiClient)
	clientService := services.NewClientService(clientRepo)
	orderService := services.NewServiceOrderService(orderRepo, clientRepo)

	app := fiber.New(fiber.Config{
		AppName:               "agendei.link",
		DisableStartupMessage: cfg.AppEnv == "production",
	})
	routes.SetupRoutes(app, routes.Handlers{
		Appointments:  api_handlers.NewAppointmentHandler(bookingService, availabilityService),
		Clients:       api_handlers.NewClientHandler(clientService),
		ServiceOrders: api_handlers.NewServiceOrderHandler(orderService),
		Webhook:       api_handlers.NewWebhookHandler(conversationService, sender),

		Users:          userRepo,
		APIAuthEnabled: cfg.APIAuth,
	})

	// Encerramento gracioso.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Encerrando o servidor...")
		_ = app.Shutdown()
	}()

	configslog.SLog.Infof("Servidor ouvindo na porta %s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		configslog.Log.Fatal("Servidor encerrou com erro", zap.Error(err))
	}
}
