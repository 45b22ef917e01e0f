package services

import (
	"context"
	"errors"
	"testing"

	"agendei.link/models"
	"agendei.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingFixture(cfgMut ...func(*fakeAppointmentRepo, *fakeCalendar)) (*BookingService, *fakeAppointmentRepo, *fakeCalendar) {
	repo := newFakeAppointmentRepo()
	calendar := newFakeCalendar()
	for _, mut := range cfgMut {
		mut(repo, calendar)
	}
	cfg := testBookingConfig()
	availability := NewAvailabilityService(repo, calendar, cfg)
	return NewBookingService(repo, availability, calendar, cfg), repo, calendar
}

func TestCreateBookingHappyPath(t *testing.T) {
	svc, repo, calendar := newBookingFixture()
	ctx := context.Background()

	result, err := svc.CreateBooking(ctx, BookingRequest{
		Summary:    "Reunião de orçamento",
		StartTime:  "2025-03-10 14:00",
		EndTime:    "2025-03-10 15:00",
		AgendaType: "online",
		ClientName: "Maria",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Appointment)
	assert.NotZero(t, result.Appointment.ID)
	assert.Equal(t, models.AgendaTypeOnline, result.Appointment.AgendaType)
	require.NotNil(t, result.Appointment.CalendarEventID)
	assert.NotEmpty(t, result.EventLink)
	assert.Len(t, calendar.created, 1)
	assert.Equal(t, 1, repo.count())

	// O instante persistido é 14:00 na hora civil do negócio.
	assert.True(t, result.Appointment.StartTime.Equal(businessTime(t, 10, 14, 0)))
}

func TestCreateBookingCategoriesDoNotConflictAcross(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "Online", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)

	// Janela sobreposta, categoria distinta: aceito.
	_, err = svc.CreateBooking(ctx, BookingRequest{
		Summary: "Na loja", StartTime: "2025-03-10 14:30", EndTime: "2025-03-10 15:30", AgendaType: "visita",
	})
	require.NoError(t, err)

	// Mesma categoria sobreposta: rejeitado com alternativas.
	_, err = svc.CreateBooking(ctx, BookingRequest{
		Summary: "Outro online", StartTime: "2025-03-10 14:30", EndTime: "2025-03-10 15:30", AgendaType: "online",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.GreaterOrEqual(t, conflictErr.ConflictCount, 1)
	require.NotEmpty(t, conflictErr.Alternatives)
	// A primeira alternativa começa depois do bloco ocupado.
	assert.False(t, conflictErr.Alternatives[0].Start.Before(businessTime(t, 10, 15, 0)))
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "Primeiro", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, BookingRequest{
		Summary: "Encostado", StartTime: "2025-03-10 15:00", EndTime: "2025-03-10 16:00", AgendaType: "online",
	})
	assert.NoError(t, err)
}

func TestCreateBookingOutsideHoursBeatsConflict(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := context.Background()

	// Sábado: rejeição por expediente, nunca por conflito.
	_, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "Fim de semana", StartTime: "2025-03-15 10:00", EndTime: "2025-03-15 11:00", AgendaType: "online",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingOutsideHours)
	assert.NotErrorIs(t, err, ErrBookingConflict)

	// Fim às 18:30 estoura o fechamento mesmo com início válido.
	_, err = svc.CreateBooking(ctx, BookingRequest{
		Summary: "Tarde demais", StartTime: "2025-03-10 17:30", EndTime: "2025-03-10 18:30", AgendaType: "online",
	})
	assert.ErrorIs(t, err, ErrBookingOutsideHours)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, repo, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, BookingRequest{StartTime: "2025-03-10 14:00"})
	assert.ErrorIs(t, err, ErrBookingValidation)

	_, err = svc.CreateBooking(ctx, BookingRequest{Summary: "x", StartTime: "quando der"})
	assert.ErrorIs(t, err, ErrBookingValidation)

	_, err = svc.CreateBooking(ctx, BookingRequest{
		Summary: "x", StartTime: "2025-03-10 15:00", EndTime: "2025-03-10 14:00",
	})
	assert.ErrorIs(t, err, ErrBookingValidation)

	_, err = svc.CreateBooking(ctx, BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", AgendaType: "telepatia",
	})
	assert.ErrorIs(t, err, ErrBookingValidation)

	assert.Equal(t, 0, repo.count())
}

func TestCreateBookingDerivesEndFromDuration(t *testing.T) {
	svc, _, _ := newBookingFixture()

	result, err := svc.CreateBooking(context.Background(), BookingRequest{
		Summary:         "Sem fim explícito",
		StartTime:       "2025-03-10 14:00",
		DurationMinutes: 90,
		AgendaType:      "loja",
	})
	require.NoError(t, err)
	assert.True(t, result.Appointment.EndTime.Equal(businessTime(t, 10, 15, 30)))
	assert.Equal(t, models.AgendaTypeInStore, result.Appointment.AgendaType)
}

func TestCreateBookingCalendarRequiredAbortsBeforePersist(t *testing.T) {
	repo := newFakeAppointmentRepo()
	calendar := newFakeCalendar()
	calendar.failCreate = errors.New("calendar 503")
	cfg := testBookingConfig()
	cfg.RequireCalendar = true
	svc := NewBookingService(repo, NewAvailabilityService(repo, calendar, cfg), calendar, cfg)

	_, err := svc.CreateBooking(context.Background(), BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingCalendarWrite)
	assert.Equal(t, 0, repo.count(), "nada pode ser persistido sem o evento")
}

func TestCreateBookingCalendarOptionalDegrades(t *testing.T) {
	svc, repo, _ := newBookingFixture(func(_ *fakeAppointmentRepo, c *fakeCalendar) {
		c.failCreate = errors.New("calendar 503")
	})

	result, err := svc.CreateBooking(context.Background(), BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Appointment.CalendarEventID)
	assert.Empty(t, result.EventLink)
	assert.Equal(t, 1, repo.count())
}

func TestCreateBookingUnwindsCalendarOnInsertFailure(t *testing.T) {
	svc, repo, calendar := newBookingFixture(func(r *fakeAppointmentRepo, _ *fakeCalendar) {
		r.createErr = repositories.ErrConflict
	})

	_, err := svc.CreateBooking(context.Background(), BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.Error(t, err)
	// Corrida detectada no insert vira a mesma rejeição de conflito.
	assert.ErrorIs(t, err, ErrBookingConflict)
	// O evento recém-criado foi desfeito: calendário não fica à frente do banco.
	require.Len(t, calendar.created, 1)
	require.Len(t, calendar.deleted, 1)
	assert.Equal(t, 0, repo.count())
}

func TestUpdateBookingKeepsDurationWhenOnlyStartChanges(t *testing.T) {
	svc, _, calendar := newBookingFixture()
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBooking(ctx, created.Appointment.ID, BookingUpdate{
		StartTime: "2025-03-11 09:00",
	})
	require.NoError(t, err)
	assert.True(t, updated.StartTime.Equal(businessTime(t, 11, 9, 0)))
	assert.True(t, updated.EndTime.Equal(businessTime(t, 11, 10, 0)), "duração original preservada")

	// O evento do calendário acompanhou a mudança.
	require.NotNil(t, created.Appointment.CalendarEventID)
	_, patched := calendar.updated[*created.Appointment.CalendarEventID]
	assert.True(t, patched)
}

func TestUpdateBookingExcludesSelfFromConflictCheck(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)

	// Re-salvar no mesmo horário não conflita consigo mesmo.
	summary := "renomeado"
	updated, err := svc.UpdateBooking(ctx, created.Appointment.ID, BookingUpdate{Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "renomeado", updated.Summary)
}

func TestUpdateBookingRejectsConflictWithOther(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "fixo", StartTime: "2025-03-10 10:00", EndTime: "2025-03-10 11:00", AgendaType: "online",
	})
	require.NoError(t, err)
	second, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "móvel", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)

	_, err = svc.UpdateBooking(ctx, second.Appointment.ID, BookingUpdate{StartTime: "2025-03-10 10:30"})
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCancelBookingToleratesCalendarOutage(t *testing.T) {
	svc, repo, calendar := newBookingFixture()
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, BookingRequest{
		Summary: "x", StartTime: "2025-03-10 14:00", EndTime: "2025-03-10 15:00", AgendaType: "online",
	})
	require.NoError(t, err)

	calendar.failDelete = errors.New("calendar 503")
	require.NoError(t, svc.CancelBooking(ctx, created.Appointment.ID))
	assert.Equal(t, 0, repo.count(), "o cancelamento local nunca é bloqueado pelo calendário")

	// A janela volta a ficar disponível.
	availability := NewAvailabilityService(repo, nil, testBookingConfig())
	result, err := availability.CheckAvailability(ctx, businessTime(t, 10, 14, 0), businessTime(t, 10, 15, 0), models.AgendaTypeOnline)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestBookingNotFound(t *testing.T) {
	svc, _, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = svc.UpdateBooking(ctx, 999, BookingUpdate{})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, svc.CancelBooking(ctx, 999), ErrBookingNotFound)
}
