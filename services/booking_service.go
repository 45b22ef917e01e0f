package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agendei.link/configs"
	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/googlecalendar"
	"agendei.link/pkg/timeparse"
	"agendei.link/repositories"

	"go.uber.org/zap"
)

// BookingServiceError erros do fluxo de agendamento.
type BookingServiceError string

func (e BookingServiceError) Error() string { return string(e) }

const (
	ErrBookingValidation     BookingServiceError = "dados de agendamento inválidos"
	ErrBookingOutsideHours   BookingServiceError = "horário fora do expediente"
	ErrBookingConflict       BookingServiceError = "horário indisponível para a categoria"
	ErrBookingCalendarWrite  BookingServiceError = "falha ao gravar no calendário"
	ErrBookingNotFound       BookingServiceError = "agendamento não encontrado"
	ErrBookingCreationFailed BookingServiceError = "agendamento não pôde ser criado"
	ErrBookingUpdateFailed   BookingServiceError = "agendamento não pôde ser atualizado"
)

// ConflictError rejeição por sobreposição, carregando alternativas para o
// chamador oferecer. errors.Is(err, ErrBookingConflict) continua verdadeiro.
type ConflictError struct {
	ConflictCount int
	Alternatives  []Slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (%d conflito(s), %d alternativa(s))",
		ErrBookingConflict, e.ConflictCount, len(e.Alternatives))
}

func (e *ConflictError) Unwrap() error { return ErrBookingConflict }

// BookingRequest pedido de criação. StartTime/EndTime aceitam time.Time ou
// string em qualquer formato reconhecido por timeparse.
type BookingRequest struct {
	Summary         string `json:"summary"`
	Description     string `json:"description"`
	StartTime       any    `json:"start_time"`
	EndTime         any    `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	AgendaType      string `json:"agenda_type"`
	ClientName      string `json:"client_name"`
	PhoneNumber     string `json:"phone_number"`
}

// BookingUpdate campos alteráveis; ponteiro nulo mantém o valor atual.
type BookingUpdate struct {
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	StartTime   any     `json:"start_time"`
	EndTime     any     `json:"end_time"`
	AgendaType  *string `json:"agenda_type"`
	ClientName  *string `json:"client_name"`
	PhoneNumber *string `json:"phone_number"`
}

// BookingResult agendamento persistido mais o link do evento, quando houver.
type BookingResult struct {
	Appointment *models.Appointment `json:"appointment"`
	EventLink   string              `json:"event_link,omitempty"`
}

// IBookingService orquestra criar/atualizar/cancelar agendamentos.
type IBookingService interface {
	CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error)
	UpdateBooking(ctx context.Context, id uint, changes BookingUpdate) (*models.Appointment, error)
	CancelBooking(ctx context.Context, id uint) error
	GetBooking(ctx context.Context, id uint) (*models.Appointment, error)
	ListBookings(ctx context.Context, filter repositories.AppointmentFilter) ([]models.Appointment, int64, error)
}

// BookingService implementa IBookingService.
type BookingService struct {
	repo         repositories.IAppointmentRepository
	availability IAvailabilityService
	calendar     googlecalendar.Client
	cfg          configs.BookingConfig
}

// NewBookingService cria o serviço com as dependências explícitas.
func NewBookingService(repo repositories.IAppointmentRepository, availability IAvailabilityService, calendar googlecalendar.Client, cfg configs.BookingConfig) *BookingService {
	return &BookingService{repo: repo, availability: availability, calendar: calendar, cfg: cfg}
}

// resolveInterval normaliza início/fim; fim ausente deriva da duração.
func (s *BookingService) resolveInterval(startRaw, endRaw any, durationMinutes int) (time.Time, time.Time, error) {
	start, err := timeparse.Normalize(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: início: %v", ErrBookingValidation, err)
	}
	var end time.Time
	if isEmptyTime(endRaw) {
		if durationMinutes <= 0 {
			durationMinutes = s.cfg.DefaultDurationMinutes
		}
		end = start.Add(time.Duration(durationMinutes) * time.Minute)
	} else {
		end, err = timeparse.Normalize(endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: fim: %v", ErrBookingValidation, err)
		}
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: início deve anteceder o fim", ErrBookingValidation)
	}
	return start, end, nil
}

func isEmptyTime(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t == nil || t.IsZero()
	default:
		return false
	}
}

func (s *BookingService) checkWorkingHours(start, end time.Time) error {
	if !s.availability.IsWithinWorkingHours(start) || !s.availability.IsWithinWorkingHours(end) {
		return fmt.Errorf("%w: atendemos %s", ErrBookingOutsideHours, s.availability.WorkingHoursDescription())
	}
	return nil
}

// conflictError monta a rejeição com sugestões a partir do horário pedido.
func (s *BookingService) conflictError(ctx context.Context, conflictCount int, start time.Time, durationMinutes int, agendaType models.AgendaType) error {
	alternatives, err := s.availability.SuggestAlternatives(ctx, start, durationMinutes, agendaType, s.cfg.MaxSuggestions)
	if err != nil {
		configslog.Log.Warn("Falha ao sugerir alternativas", zap.Error(err))
		alternatives = nil
	}
	return &ConflictError{ConflictCount: conflictCount, Alternatives: alternatives}
}

// CreateBooking valida, checa expediente e disponibilidade, grava no
// calendário e só então persiste. A ordem é deliberada: com calendário
// exigido, o banco nunca contém um agendamento sem o evento correspondente.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if strings.TrimSpace(req.Summary) == "" {
		return nil, fmt.Errorf("%w: resumo é obrigatório", ErrBookingValidation)
	}
	start, end, err := s.resolveInterval(req.StartTime, req.EndTime, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	agendaType, known := models.NormalizeAgendaType(req.AgendaType)
	if req.AgendaType != "" && !known {
		return nil, fmt.Errorf("%w: categoria desconhecida %q", ErrBookingValidation, req.AgendaType)
	}
	if err := s.checkWorkingHours(start, end); err != nil {
		return nil, err
	}

	durationMinutes := int(end.Sub(start) / time.Minute)
	result, err := s.availability.CheckAvailability(ctx, start, end, agendaType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingCreationFailed, err)
	}
	if !result.Available {
		return nil, s.conflictError(ctx, result.ConflictCount, start, durationMinutes, agendaType)
	}

	appointment := &models.Appointment{
		Summary:     req.Summary,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		AgendaType:  agendaType,
		ClientName:  req.ClientName,
		PhoneNumber: req.PhoneNumber,
	}

	var eventLink string
	var createdEvent *googlecalendar.Event
	if s.calendar != nil {
		event, calErr := s.calendar.CreateEvent(ctx, googlecalendar.EventInput{
			Summary:     req.Summary,
			Description: req.Description,
			Start:       start,
			End:         end,
			AgendaType:  string(agendaType),
		})
		switch {
		case calErr == nil:
			createdEvent = event
			appointment.CalendarEventID = &event.ID
			eventLink = event.HTMLLink
		case s.cfg.RequireCalendar:
			// Aborta tudo: nada é persistido sem o evento.
			configslog.Log.Error("CreateBooking: escrita no calendário falhou", zap.Error(calErr))
			return nil, fmt.Errorf("%w: %v", ErrBookingCalendarWrite, calErr)
		default:
			configslog.Log.Warn("CreateBooking: calendário indisponível, agendando apenas no banco", zap.Error(calErr))
		}
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		// Desfaz o evento recém-criado para o calendário não ficar à frente
		// do banco.
		if createdEvent != nil {
			if delErr := s.calendar.DeleteEvent(ctx, createdEvent.ID); delErr != nil {
				configslog.Log.Error("CreateBooking: falha ao desfazer evento do calendário",
					zap.String("event_id", createdEvent.ID), zap.Error(delErr))
			}
		}
		if errors.Is(err, repositories.ErrConflict) {
			return nil, s.conflictError(ctx, 1, start, durationMinutes, agendaType)
		}
		return nil, fmt.Errorf("%w: %v", ErrBookingCreationFailed, err)
	}

	configslog.SLog.Infof("Agendamento criado: ID %d, %s, %s",
		appointment.ID, agendaType.Label(), start.In(timeparse.Zone()).Format("02/01/2006 15:04"))
	return &BookingResult{Appointment: appointment, EventLink: eventLink}, nil
}

// UpdateBooking recalcula o intervalo, re-checa conflitos excluindo o próprio
// registro e persiste. Falha no patch do calendário é logada e tolerada: o
// registro já existe e a divergência é reconciliável manualmente.
func (s *BookingService) UpdateBooking(ctx context.Context, id uint, changes BookingUpdate) (*models.Appointment, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	start, end := existing.StartTime, existing.EndTime
	if !isEmptyTime(changes.StartTime) || !isEmptyTime(changes.EndTime) {
		startRaw, endRaw := changes.StartTime, changes.EndTime
		if isEmptyTime(startRaw) {
			startRaw = existing.StartTime
		}
		if isEmptyTime(endRaw) {
			// Mantém a duração original quando só o início muda.
			newStart, parseErr := timeparse.Normalize(startRaw)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: início: %v", ErrBookingValidation, parseErr)
			}
			endRaw = newStart.Add(existing.EndTime.Sub(existing.StartTime))
		}
		start, end, err = s.resolveInterval(startRaw, endRaw, 0)
		if err != nil {
			return nil, err
		}
		if err := s.checkWorkingHours(start, end); err != nil {
			return nil, err
		}
	}

	agendaType := existing.AgendaType
	if changes.AgendaType != nil {
		normalized, known := models.NormalizeAgendaType(*changes.AgendaType)
		if !known {
			return nil, fmt.Errorf("%w: categoria desconhecida %q", ErrBookingValidation, *changes.AgendaType)
		}
		agendaType = normalized
	}

	conflicts, err := s.repo.FindConflicts(ctx, start, end, agendaType, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingUpdateFailed, err)
	}
	if len(conflicts) > 0 {
		durationMinutes := int(end.Sub(start) / time.Minute)
		return nil, s.conflictError(ctx, len(conflicts), start, durationMinutes, agendaType)
	}

	fields := map[string]any{
		"start_time":  start,
		"end_time":    end,
		"agenda_type": agendaType,
	}
	if changes.Summary != nil {
		fields["summary"] = *changes.Summary
	}
	if changes.Description != nil {
		fields["description"] = *changes.Description
	}
	if changes.ClientName != nil {
		fields["client_name"] = *changes.ClientName
	}
	if changes.PhoneNumber != nil {
		fields["phone_number"] = *changes.PhoneNumber
	}

	if existing.CalendarEventID != nil && s.calendar != nil {
		summary := existing.Summary
		if changes.Summary != nil {
			summary = *changes.Summary
		}
		description := existing.Description
		if changes.Description != nil {
			description = *changes.Description
		}
		calErr := s.calendar.UpdateEvent(ctx, *existing.CalendarEventID, googlecalendar.EventInput{
			Summary:     summary,
			Description: description,
			Start:       start,
			End:         end,
			AgendaType:  string(agendaType),
		})
		if calErr != nil {
			configslog.Log.Warn("UpdateBooking: patch do calendário falhou, banco segue autoritativo",
				zap.Uint("id", id), zap.String("event_id", *existing.CalendarEventID), zap.Error(calErr))
		}
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrBookingUpdateFailed, err)
	}
	configslog.SLog.Infof("Agendamento atualizado: ID %d", id)
	return updated, nil
}

// CancelBooking remove o agendamento. A exclusão do evento no calendário é
// best-effort: indisponibilidade do calendário nunca bloqueia o cancelamento.
func (s *BookingService) CancelBooking(ctx context.Context, id uint) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if existing.CalendarEventID != nil && s.calendar != nil {
		if calErr := s.calendar.DeleteEvent(ctx, *existing.CalendarEventID); calErr != nil {
			configslog.Log.Warn("CancelBooking: exclusão no calendário falhou, removendo apenas do banco",
				zap.Uint("id", id), zap.String("event_id", *existing.CalendarEventID), zap.Error(calErr))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	configslog.SLog.Infof("Agendamento cancelado: ID %d", id)
	return nil
}

// GetBooking acesso simples por ID.
func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return appointment, nil
}

// ListBookings listagem com filtros, consumida pelos controllers.
func (s *BookingService) ListBookings(ctx context.Context, filter repositories.AppointmentFilter) ([]models.Appointment, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

var _ IBookingService = (*BookingService)(nil)
