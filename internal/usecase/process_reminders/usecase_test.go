package process_reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
)

// --- Фейки ---

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

// fakeAppointmentRepo отдает заранее подготовленную партию; отметка
// напоминания идемпотентна, как и в SQL-реализации
type fakeAppointmentRepo struct {
	due          []*domain.Appointment
	markedIDs    map[int64]bool
	listCalls    int
	reminderArgs struct {
		reminderHours int
		limit         int
	}
}

func newFakeAppointmentRepo(due ...*domain.Appointment) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{due: due, markedIDs: map[int64]bool{}}
}

func (f *fakeAppointmentRepo) ListDueReminders(_ context.Context, _ time.Time, reminderHours int, limit int) ([]*domain.Appointment, error) {
	f.listCalls++
	f.reminderArgs.reminderHours = reminderHours
	f.reminderArgs.limit = limit

	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeAppointmentRepo) MarkReminderSent(_ context.Context, id int64, _ time.Time) (bool, error) {
	if f.markedIDs[id] {
		return false, nil
	}
	f.markedIDs[id] = true
	return true, nil
}

type fakeScheduleRepo struct {
	settings *domain.ScheduleSettings
}

func (f *fakeScheduleRepo) GetSettings(_ context.Context) (*domain.ScheduleSettings, error) {
	if f.settings == nil {
		return nil, scheduleRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEventPublisher struct {
	events []domain.Event
}

func (f *fakeEventPublisher) Publish(event domain.Event) {
	f.events = append(f.events, event)
}

// --- Хелперы ---

func dueAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		Code:            "code",
		ClientRef:       "client-1",
		Date:            time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func newTestUseCase(repo *fakeAppointmentRepo, schedule *fakeScheduleRepo, events *fakeEventPublisher, now time.Time) *UseCase {
	uc := NewUseCase(repo, schedule, fakeTxManager{}, events, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

// --- Тесты ---

func TestExecute_ProcessesDueReminders(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	repo := newFakeAppointmentRepo(dueAppointment(1), dueAppointment(2))
	events := &fakeEventPublisher{}

	uc := newTestUseCase(repo, &fakeScheduleRepo{settings: &domain.ScheduleSettings{ReminderHours: 24}}, events, now)

	resp, err := uc.Execute(context.Background(), &Request{BatchSize: 50})
	require.NoError(t, err)

	require.Len(t, resp.Processed, 2)
	assert.Zero(t, resp.Skipped)

	for _, appt := range resp.Processed {
		require.NotNil(t, appt.ReminderSentAt)
		assert.True(t, appt.ReminderSentAt.Equal(now))
	}

	require.Len(t, events.events, 2)
	for _, event := range events.events {
		assert.Equal(t, domain.EventTypeReminderDue, event.Type)
	}

	// Окно напоминаний берется из настроек
	assert.Equal(t, 24, repo.reminderArgs.reminderHours)
	assert.Equal(t, 50, repo.reminderArgs.limit)
}

func TestExecute_SkipsConcurrentlyMarked(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	repo := newFakeAppointmentRepo(dueAppointment(1), dueAppointment(2))
	// Запись 2 уже отмечена другим экземпляром сервиса
	repo.markedIDs[2] = true

	events := &fakeEventPublisher{}
	uc := newTestUseCase(repo, &fakeScheduleRepo{settings: &domain.ScheduleSettings{ReminderHours: 24}}, events, now)

	resp, err := uc.Execute(context.Background(), &Request{BatchSize: 50})
	require.NoError(t, err)

	require.Len(t, resp.Processed, 1)
	assert.Equal(t, int64(1), resp.Processed[0].ID)
	assert.Equal(t, 1, resp.Skipped)

	// Событие публикуется только по реально отмеченным напоминаниям
	require.Len(t, events.events, 1)
}

func TestExecute_EmptyBatch(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	repo := newFakeAppointmentRepo()
	events := &fakeEventPublisher{}
	uc := newTestUseCase(repo, &fakeScheduleRepo{settings: &domain.ScheduleSettings{ReminderHours: 24}}, events, now)

	resp, err := uc.Execute(context.Background(), &Request{BatchSize: 50})
	require.NoError(t, err)

	assert.Empty(t, resp.Processed)
	assert.Zero(t, resp.Skipped)
	assert.Empty(t, events.events)
}

func TestExecute_BatchSizeLimitsSelection(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	repo := newFakeAppointmentRepo(dueAppointment(1), dueAppointment(2), dueAppointment(3))
	uc := newTestUseCase(repo, &fakeScheduleRepo{settings: &domain.ScheduleSettings{ReminderHours: 24}}, &fakeEventPublisher{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BatchSize: 2})
	require.NoError(t, err)

	assert.Len(t, resp.Processed, 2)
}

func TestExecute_MissingSettingsFallsBackToDefaults(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	repo := newFakeAppointmentRepo(dueAppointment(1))
	uc := newTestUseCase(repo, &fakeScheduleRepo{}, &fakeEventPublisher{}, now)

	_, err := uc.Execute(context.Background(), &Request{BatchSize: 50})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultReminderHours, repo.reminderArgs.reminderHours)
}

func TestExecute_InvalidBatchSize(t *testing.T) {
	uc := newTestUseCase(newFakeAppointmentRepo(), &fakeScheduleRepo{}, &fakeEventPublisher{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{BatchSize: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
