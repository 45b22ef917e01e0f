package api

import (
	"strconv"

	"agendei.link/models"
	"agendei.link/pkg/timeparse"
	"agendei.link/repositories"
	"agendei.link/services"

	"github.com/gofiber/fiber/v2"
)

// AppointmentHandler controllers JSON dos agendamentos e da disponibilidade.
type AppointmentHandler struct {
	booking      services.IBookingService
	availability services.IAvailabilityService
}

// NewAppointmentHandler cria o handler com os serviços informados.
func NewAppointmentHandler(booking services.IBookingService, availability services.IAvailabilityService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, availability: availability}
}

// ListAppointments GET /api/appointments
func (h *AppointmentHandler) ListAppointments(c *fiber.Ctx) error {
	filter := repositories.AppointmentFilter{
		PhoneNumber: c.Query("phone_number"),
		OrderDesc:   c.Query("order_by") == "desc",
	}
	if raw := c.Query("start_from"); raw != "" {
		t, err := timeparse.Normalize(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_from inválido"})
		}
		filter.StartFrom = &t
	}
	if raw := c.Query("start_to"); raw != "" {
		t, err := timeparse.Normalize(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_to inválido"})
		}
		filter.StartTo = &t
	}
	if raw := c.Query("agenda_type"); raw != "" {
		agendaType, ok := models.NormalizeAgendaType(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "agenda_type inválido"})
		}
		filter.AgendaType = &agendaType
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	appointments, total, err := h.booking.ListBookings(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": appointments, "total": total})
}

// GetAppointment GET /api/appointments/:id
func (h *AppointmentHandler) GetAppointment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	appointment, err := h.booking.GetBooking(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(appointment)
}

// CreateAppointment POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(c *fiber.Ctx) error {
	var req services.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}
	result, err := h.booking.CreateBooking(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// UpdateAppointment PUT /api/appointments/:id
func (h *AppointmentHandler) UpdateAppointment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var changes services.BookingUpdate
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "corpo da requisição inválido"})
	}
	updated, err := h.booking.UpdateBooking(c.UserContext(), id, changes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// DeleteAppointment DELETE /api/appointments/:id
func (h *AppointmentHandler) DeleteAppointment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.booking.CancelBooking(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckAvailability GET /api/appointments/availability?start=&end=&agenda_type=
func (h *AppointmentHandler) CheckAvailability(c *fiber.Ctx) error {
	start, err := timeparse.Normalize(c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start inválido"})
	}
	end, err := timeparse.Normalize(c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end inválido"})
	}
	agendaType, _ := models.NormalizeAgendaType(c.Query("agenda_type"))
	result, err := h.availability.CheckAvailability(c.UserContext(), start, end, agendaType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// SuggestAlternatives GET /api/appointments/suggestions?start=&duration_minutes=&agenda_type=
func (h *AppointmentHandler) SuggestAlternatives(c *fiber.Ctx) error {
	start, err := timeparse.Normalize(c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start inválido"})
	}
	duration := 0
	if raw := c.Query("duration_minutes"); raw != "" {
		duration, _ = strconv.Atoi(raw)
	}
	agendaType, _ := models.NormalizeAgendaType(c.Query("agenda_type"))
	slots, err := h.availability.SuggestAlternatives(c.UserContext(), start, duration, agendaType, 0)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": slots})
}
