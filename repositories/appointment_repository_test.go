package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"agendei.link/configs/configslog"
	"agendei.link/models"
	"agendei.link/pkg/timeparse"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Appointment{}, &models.Session{}))
	return db
}

func slot(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, timeparse.Zone())
}

func makeAppointment(hourStart, hourEnd int, agendaType models.AgendaType) *models.Appointment {
	return &models.Appointment{
		Summary:    "teste",
		StartTime:  time.Date(2025, time.March, 10, hourStart, 0, 0, 0, timeparse.Zone()),
		EndTime:    time.Date(2025, time.March, 10, hourEnd, 0, 0, 0, timeparse.Zone()),
		AgendaType: agendaType,
	}
}

func TestAppointmentCreateRejectsOverlapInSameCategory(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeAppointment(14, 15, models.AgendaTypeOnline)))

	// Sobreposição na mesma categoria: a guarda do insert dispara.
	err := repo.Create(ctx, &models.Appointment{
		Summary:    "sobreposto",
		StartTime:  slot(t, 14, 30),
		EndTime:    slot(t, 15, 30),
		AgendaType: models.AgendaTypeOnline,
	})
	assert.ErrorIs(t, err, ErrConflict)

	// Mesma janela em outra categoria passa.
	assert.NoError(t, repo.Create(ctx, &models.Appointment{
		Summary:    "outra categoria",
		StartTime:  slot(t, 14, 30),
		EndTime:    slot(t, 15, 30),
		AgendaType: models.AgendaTypeInStore,
	}))

	// Encostado (fim == início) não conflita.
	assert.NoError(t, repo.Create(ctx, makeAppointment(15, 16, models.AgendaTypeOnline)))
}

func TestAppointmentCreateValidatesInterval(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	err := repo.Create(context.Background(), makeAppointment(15, 14, models.AgendaTypeOnline))
	assert.Error(t, err)
}

func TestFindConflictsMatchesLegacySpellings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeAppointment(14, 15, models.AgendaTypeInStore)))
	// Simula registro histórico gravado com grafia legada, sem passar pelos
	// hooks de normalização.
	require.NoError(t, db.Model(&models.Appointment{}).
		Where("summary = ?", "teste").
		UpdateColumn("agenda_type", "visita").Error)

	conflicts, err := repo.FindConflicts(ctx, slot(t, 14, 30), slot(t, 15, 30), models.AgendaTypeInStore, 0)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	// AfterFind devolve a forma canônica mesmo para a linha legada.
	assert.Equal(t, models.AgendaTypeInStore, conflicts[0].AgendaType)

	// A linha legada não vaza para a outra categoria.
	conflicts, err = repo.FindConflicts(ctx, slot(t, 14, 30), slot(t, 15, 30), models.AgendaTypeOnline, 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsExcludesGivenID(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	appointment := makeAppointment(14, 15, models.AgendaTypeOnline)
	require.NoError(t, repo.Create(ctx, appointment))

	conflicts, err := repo.FindConflicts(ctx, slot(t, 14, 0), slot(t, 15, 0), models.AgendaTypeOnline, appointment.ID)
	require.NoError(t, err)
	assert.Empty(t, conflicts, "o próprio registro não conflita consigo")
}

func TestAppointmentUpdatePartial(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	appointment := makeAppointment(14, 15, models.AgendaTypeOnline)
	appointment.ClientName = "Maria"
	require.NoError(t, repo.Create(ctx, appointment))
	before := appointment.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.Update(ctx, appointment.ID, map[string]any{
		"start_time": slot(t, 16, 0),
		"end_time":   slot(t, 17, 0),
	})
	require.NoError(t, err)

	assert.True(t, updated.StartTime.Equal(slot(t, 16, 0)))
	assert.Equal(t, "Maria", updated.ClientName, "campos não informados permanecem")
	assert.True(t, updated.UpdatedAt.After(before))

	_, err = repo.Update(ctx, 9999, map[string]any{"summary": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentDelete(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	appointment := makeAppointment(14, 15, models.AgendaTypeOnline)
	require.NoError(t, repo.Create(ctx, appointment))
	require.NoError(t, repo.Delete(ctx, appointment.ID))

	_, err := repo.FindByID(ctx, appointment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, appointment.ID), ErrNotFound)

	// Removido, a janela volta a ficar livre.
	conflicts, err := repo.FindConflicts(ctx, slot(t, 14, 0), slot(t, 15, 0), models.AgendaTypeOnline, 0)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindLatestByPhone(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	first := makeAppointment(9, 10, models.AgendaTypeOnline)
	first.PhoneNumber = "5511999990000"
	require.NoError(t, repo.Create(ctx, first))

	time.Sleep(5 * time.Millisecond)
	second := makeAppointment(11, 12, models.AgendaTypeOnline)
	second.PhoneNumber = "5511999990000"
	require.NoError(t, repo.Create(ctx, second))

	latest, err := repo.FindLatestByPhone(ctx, "5511999990000")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = repo.FindLatestByPhone(ctx, "5500000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppointmentFindAllFilters(t *testing.T) {
	repo := NewAppointmentRepository(setupTestDB(t))
	ctx := context.Background()

	online := makeAppointment(9, 10, models.AgendaTypeOnline)
	online.PhoneNumber = "551100000001"
	require.NoError(t, repo.Create(ctx, online))
	inStore := makeAppointment(11, 12, models.AgendaTypeInStore)
	inStore.PhoneNumber = "551100000002"
	require.NoError(t, repo.Create(ctx, inStore))

	agendaType := models.AgendaTypeOnline
	items, total, err := repo.FindAll(ctx, AppointmentFilter{AgendaType: &agendaType})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, online.ID, items[0].ID)

	items, total, err = repo.FindAll(ctx, AppointmentFilter{PhoneNumber: "551100000002"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, inStore.ID, items[0].ID)

	from := slot(t, 10, 30)
	items, _, err = repo.FindAll(ctx, AppointmentFilter{StartFrom: &from})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, inStore.ID, items[0].ID)
}
