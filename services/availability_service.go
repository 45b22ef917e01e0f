package services

import (
	"context"
	"fmt"
	"time"

	"agendei.link/configs"
	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/googlecalendar"
	"agendei.link/pkg/timeparse"
	"agendei.link/repositories"

	"go.uber.org/zap"
)

// Slot um intervalo candidato ou confirmado.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResult resultado da checagem de disponibilidade.
type AvailabilityResult struct {
	Available     bool `json:"available"`
	ConflictCount int  `json:"conflict_count"`
}

// IAvailabilityService política de expediente + consultas de conflito +
// sugestão de horários alternativos.
type IAvailabilityService interface {
	IsWithinWorkingHours(t time.Time) bool
	WorkingHoursDescription() string
	CheckAvailability(ctx context.Context, start, end time.Time, agendaType models.AgendaType) (*AvailabilityResult, error)
	SuggestAlternatives(ctx context.Context, requested time.Time, durationMinutes int, agendaType models.AgendaType, max int) ([]Slot, error)
}

// AvailabilityService implementa IAvailabilityService. O banco é a fonte
// canônica de conflitos; o calendário externo é um espelho consultado apenas
// no modo estrito, e nunca de forma fatal.
type AvailabilityService struct {
	repo     repositories.IAppointmentRepository
	calendar googlecalendar.Client
	cfg      configs.BookingConfig
}

// NewAvailabilityService cria o serviço com as dependências explícitas.
func NewAvailabilityService(repo repositories.IAppointmentRepository, calendar googlecalendar.Client, cfg configs.BookingConfig) *AvailabilityService {
	return &AvailabilityService{repo: repo, calendar: calendar, cfg: cfg}
}

// IsWithinWorkingHours true sse a hora civil do instante no fuso do negócio
// cai de segunda a sexta, dentro de [abertura, fechamento).
func (s *AvailabilityService) IsWithinWorkingHours(t time.Time) bool {
	local := timeparse.InBusinessZone(t)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour := local.Hour()
	return hour >= s.cfg.WorkStartHour && hour < s.cfg.WorkEndHour
}

// WorkingHoursDescription descrição humana da janela de expediente, usada
// nas mensagens de rejeição.
func (s *AvailabilityService) WorkingHoursDescription() string {
	return fmt.Sprintf("segunda a sexta, das %02d:00 às %02d:00", s.cfg.WorkStartHour, s.cfg.WorkEndHour)
}

// CheckAvailability consulta os conflitos persistidos para o intervalo e a
// categoria. No modo estrito soma também os eventos do calendário externo da
// mesma categoria; falha do calendário degrada para o resultado do banco.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, start, end time.Time, agendaType models.AgendaType) (*AvailabilityResult, error) {
	conflicts, err := s.repo.FindConflicts(ctx, start, end, agendaType, 0)
	if err != nil {
		return nil, err
	}
	count := len(conflicts)

	if s.cfg.StrictAvailability && s.calendar != nil && s.calendar.Configured() {
		events, err := s.calendar.ListEvents(ctx, start, end)
		if err != nil {
			configslog.Log.Warn("CheckAvailability: calendário indisponível, usando apenas o banco", zap.Error(err))
		} else {
			for _, ev := range events {
				evType, _ := models.NormalizeAgendaType(ev.AgendaType)
				if evType != agendaType {
					continue
				}
				if ev.Start.Before(end) && ev.End.After(start) {
					count++
				}
			}
		}
	}

	return &AvailabilityResult{Available: count == 0, ConflictCount: count}, nil
}

// SuggestAlternatives caminha a partir do horário pedido em passos fixos,
// dentro do expediente, pulando fins de semana, até reunir `max` janelas sem
// conflito para a categoria. A busca é determinística e limitada ao horizonte
// configurado: esgotado o horizonte, devolve lista vazia.
func (s *AvailabilityService) SuggestAlternatives(ctx context.Context, requested time.Time, durationMinutes int, agendaType models.AgendaType, max int) ([]Slot, error) {
	if durationMinutes <= 0 {
		durationMinutes = s.cfg.DefaultDurationMinutes
	}
	if max <= 0 {
		max = s.cfg.MaxSuggestions
	}
	step := time.Duration(s.cfg.SlotStepMinutes) * time.Minute
	duration := time.Duration(durationMinutes) * time.Minute
	horizon := requested.Add(time.Duration(s.cfg.SearchHorizonDays) * 24 * time.Hour)

	slots := make([]Slot, 0, max)
	candidate := roundUpToStep(requested, step)
	for candidate.Before(horizon) && len(slots) < max {
		start := candidate
		end := candidate.Add(duration)
		if !s.IsWithinWorkingHours(start) || !s.IsWithinWorkingHours(end) {
			candidate = s.nextOpening(candidate)
			continue
		}
		conflicts, err := s.repo.FindConflicts(ctx, start, end, agendaType, 0)
		if err != nil {
			return nil, err
		}
		if len(conflicts) == 0 {
			slots = append(slots, Slot{Start: start, End: end})
		}
		candidate = candidate.Add(step)
	}
	return slots, nil
}

// roundUpToStep alinha o instante ao próximo múltiplo do passo.
func roundUpToStep(t time.Time, step time.Duration) time.Time {
	truncated := t.Truncate(step)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(step)
}

// nextOpening próxima abertura de expediente estritamente após o dia civil
// corrente (ou a abertura do próprio dia, se o instante a antecede).
func (s *AvailabilityService) nextOpening(t time.Time) time.Time {
	zone := timeparse.Zone()
	local := t.In(zone)
	opening := time.Date(local.Year(), local.Month(), local.Day(), s.cfg.WorkStartHour, 0, 0, 0, zone)
	if !local.Before(opening) {
		opening = opening.AddDate(0, 0, 1)
	}
	for opening.Weekday() == time.Saturday || opening.Weekday() == time.Sunday {
		opening = opening.AddDate(0, 0, 1)
	}
	return opening
}

var _ IAvailabilityService = (*AvailabilityService)(nil)
