package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"agendei.link/configs"
	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/assistant"
	"agendei.link/pkg/googlecalendar"
	"agendei.link/repositories"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

func testBookingConfig() configs.BookingConfig {
	return configs.BookingConfig{
		RequireCalendar:        false,
		StrictAvailability:     false,
		TimezoneOffsetHours:    -3,
		WorkStartHour:          8,
		WorkEndHour:            18,
		SlotStepMinutes:        30,
		SearchHorizonDays:      14,
		DefaultDurationMinutes: 60,
		MaxSuggestions:         3,
	}
}

// fakeAppointmentRepo repositório em memória com a mesma semântica de
// conflito do repositório real (intervalo semiaberto, escopo por categoria).
type fakeAppointmentRepo struct {
	mu             sync.Mutex
	nextID         uint
	items          map[uint]*models.Appointment
	createErr      error
	alwaysConflict bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: map[uint]*models.Appointment{}}
}

func (f *fakeAppointmentRepo) overlaps(a *models.Appointment, start, end time.Time, agendaType models.AgendaType, excludeID uint) bool {
	if a.ID == excludeID && excludeID != 0 {
		return false
	}
	normalized, _ := models.NormalizeAgendaType(string(a.AgendaType))
	if normalized != agendaType {
		return false
	}
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

func (f *fakeAppointmentRepo) FindConflicts(ctx context.Context, start, end time.Time, agendaType models.AgendaType, excludeID uint) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.alwaysConflict {
		return []models.Appointment{{Summary: "ocupado", StartTime: start, EndTime: end, AgendaType: agendaType}}, nil
	}
	var out []models.Appointment
	for _, a := range f.items {
		if f.overlaps(a, start, end, agendaType, excludeID) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, a := range f.items {
		if f.overlaps(a, appointment.StartTime, appointment.EndTime, appointment.AgendaType, 0) {
			return repositories.ErrConflict
		}
	}
	f.nextID++
	appointment.ID = f.nextID
	appointment.CreatedAt = time.Now()
	cp := *appointment
	f.items[appointment.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, id uint, fields map[string]any) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if v, ok := fields["summary"].(string); ok {
		a.Summary = v
	}
	if v, ok := fields["description"].(string); ok {
		a.Description = v
	}
	if v, ok := fields["start_time"].(time.Time); ok {
		a.StartTime = v
	}
	if v, ok := fields["end_time"].(time.Time); ok {
		a.EndTime = v
	}
	if v, ok := fields["agenda_type"].(models.AgendaType); ok {
		a.AgendaType = v
	}
	if v, ok := fields["client_name"].(string); ok {
		a.ClientName = v
	}
	if v, ok := fields["phone_number"].(string); ok {
		a.PhoneNumber = v
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeAppointmentRepo) FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.Appointment
	for _, a := range f.items {
		if a.PhoneNumber != phoneNumber {
			continue
		}
		if latest == nil || a.ID > latest.ID {
			latest = a
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeAppointmentRepo) FindAll(ctx context.Context, filter repositories.AppointmentFilter) ([]models.Appointment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.items {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAppointmentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

var _ repositories.IAppointmentRepository = (*fakeAppointmentRepo)(nil)

// fakeCalendar gateway de calendário em memória.
type fakeCalendar struct {
	mu         sync.Mutex
	configured bool
	failCreate error
	failDelete error
	failList   error
	nextID     int
	created    []googlecalendar.EventInput
	updated    map[string]googlecalendar.EventInput
	deleted    []string
	events     []googlecalendar.Event
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{configured: true, updated: map[string]googlecalendar.EventInput{}}
}

func (f *fakeCalendar) Configured() bool { return f.configured }

func (f *fakeCalendar) CreateEvent(ctx context.Context, in googlecalendar.EventInput) (*googlecalendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextID++
	f.created = append(f.created, in)
	return &googlecalendar.Event{
		ID:         fmt.Sprintf("evt-%d", f.nextID),
		Summary:    in.Summary,
		HTMLLink:   "https://calendar.example/evt",
		Start:      in.Start,
		End:        in.End,
		AgendaType: in.AgendaType,
	}, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, eventID string, in googlecalendar.EventInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[eventID] = in
	return nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendar) ListEvents(ctx context.Context, start, end time.Time) ([]googlecalendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return f.events, nil
}

var _ googlecalendar.Client = (*fakeCalendar)(nil)

// fakeAssistant colaborador generativo determinístico para os testes.
type fakeAssistant struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]assistant.Message
}

func (f *fakeAssistant) Reply(ctx context.Context, messages []assistant.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	return f.reply, f.err
}

var _ assistant.Client = (*fakeAssistant)(nil)

// fakeSessionRepo sessões em memória, uma por telefone.
type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   uint
	sessions map[string]*models.Session
	saves    int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.Session{}}
}

func (f *fakeSessionRepo) FindOrCreateByPhone(ctx context.Context, phoneNumber string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[phoneNumber]; ok {
		return s, nil
	}
	f.nextID++
	s := &models.Session{
		PhoneNumber: phoneNumber,
		State:       models.SessionStateInitial,
		Metadata:    models.JSONMap{},
	}
	s.ID = f.nextID
	f.sessions[phoneNumber] = s
	return s, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.sessions[session.PhoneNumber] = session
	return nil
}

var _ repositories.ISessionRepository = (*fakeSessionRepo)(nil)
