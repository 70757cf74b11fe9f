package transition_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/LBS-SchedulingService/pkg/ptr"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
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

// fakeAppointmentRepo in-memory хранилище с условными обновлениями статусов
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[int64]*domain.Appointment
	nextID       int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[int64]*domain.Appointment)}
}

func (f *fakeAppointmentRepo) add(appt *domain.Appointment) *domain.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *appt
	stored.ID = f.nextID
	f.appointments[stored.ID] = &stored
	return &stored
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetByDate(_ context.Context, date time.Time, onlyBlocking bool) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, appt := range f.appointments {
		if !appt.Date.Equal(date) {
			continue
		}
		if onlyBlocking && !appt.BlocksSlot() {
			continue
		}
		copied := *appt
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	return f.add(appt), nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	if appt.Status != from {
		return apptRepo.ErrStatusConflict
	}
	appt.Status = to
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, from domain.AppointmentStatus, reason string, fee *float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	if appt.Status != from {
		return apptRepo.ErrStatusConflict
	}

	now := time.Now()
	appt.Status = domain.StatusCancelled
	appt.CancelledAt = &now
	appt.CancellationFee = fee
	if reason != "" {
		appt.CancellationReason = &reason
	}
	return nil
}

func (f *fakeAppointmentRepo) SetServiceNotes(_ context.Context, id int64, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.appointments[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.ServiceNotes = &notes
	return nil
}

type fakeScheduleRepo struct {
	workingHours domain.WorkingHours
	settings     *domain.ScheduleSettings
	blackout     *domain.BlackoutDate
}

func (f *fakeScheduleRepo) GetWorkingHours(_ context.Context) (domain.WorkingHours, error) {
	return f.workingHours, nil
}

func (f *fakeScheduleRepo) GetSettings(_ context.Context) (*domain.ScheduleSettings, error) {
	if f.settings == nil {
		return nil, scheduleRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeScheduleRepo) GetBlackout(_ context.Context, _ time.Time) (*domain.BlackoutDate, error) {
	if f.blackout == nil {
		return nil, scheduleRepo.ErrBlackoutNotFound
	}
	return f.blackout, nil
}

type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakeEventPublisher) Publish(event domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type fakeCacheInvalidator struct {
	mu    sync.Mutex
	dates []time.Time
}

func (f *fakeCacheInvalidator) InvalidateDate(_ context.Context, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
}

// --- Хелперы ---

type testEnv struct {
	uc       *UseCase
	repo     *fakeAppointmentRepo
	schedule *fakeScheduleRepo
	events   *fakeEventPublisher
	cache    *fakeCacheInvalidator
}

func allDaysOpen(open, close types.TimeString) domain.WorkingHours {
	day := domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: close}
	return domain.WorkingHours{
		Monday: day, Tuesday: day, Wednesday: day,
		Thursday: day, Friday: day, Saturday: day, Sunday: day,
	}
}

func testSettings() *domain.ScheduleSettings {
	return &domain.ScheduleSettings{
		CancellationWindowHours: 48,
		CancellationFeeAmount:   35.0,
		BufferMinutes:           15,
		SlotGranularityMinutes:  30,
		MinimumLeadMinutes:      60,
		ReminderHours:           24,
	}
}

func newTestEnv(now time.Time) *testEnv {
	repo := newFakeAppointmentRepo()
	schedule := &fakeScheduleRepo{
		workingHours: allDaysOpen("09:00", "18:00"),
		settings:     testSettings(),
	}
	events := &fakeEventPublisher{}
	cache := &fakeCacheInvalidator{}

	uc := NewUseCase(repo, schedule, &fakeTxManager{}, events, cache, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &testEnv{uc: uc, repo: repo, schedule: schedule, events: events, cache: cache}
}

func storedAppointment(env *testEnv, status domain.AppointmentStatus, date time.Time, startTime types.TimeString) *domain.Appointment {
	return env.repo.add(&domain.Appointment{
		Code:            "code-1",
		ServiceID:       1,
		ServiceName:     "Haircut",
		ServicePrice:    50,
		ClientRef:       "client-1",
		ClientName:      "Alice",
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: 60,
		Price:           50,
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
	})
}

// --- Тесты ---

func TestExecute_ApproveConfirmsPending(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusPending, date, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Event: "approve"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)
	assert.Nil(t, resp.NewAppointment)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, domain.EventTypeStatusChanged, env.events.events[0].Type)
	assert.Equal(t, domain.StatusPending, env.events.events[0].FromStatus)
	assert.Equal(t, domain.StatusConfirmed, env.events.events[0].ToStatus)
}

func TestExecute_CancelPendingWithoutFee(t *testing.T) {
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusPending, date, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "cancel",
		Reason:        ptr.Ptr("changed my mind"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
	assert.Nil(t, resp.Appointment.CancellationFee)
	require.NotNil(t, resp.Appointment.CancellationReason)
	assert.Equal(t, "changed my mind", *resp.Appointment.CancellationReason)
}

func TestExecute_LateCancellationFee(t *testing.T) {
	// Запись 07.09 в 10:30, сейчас 05.09 12:00: до начала 46.5 часа,
	// меньше окна в 48 часов - начисляется штраф
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, date, "10:30")

	resp, err := env.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Event: "cancel"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
	require.NotNil(t, resp.Appointment.CancellationFee)
	assert.Equal(t, 35.0, *resp.Appointment.CancellationFee)
	require.NotNil(t, resp.Appointment.CancellationReason)
	assert.Equal(t, domain.LateCancellationReason, *resp.Appointment.CancellationReason)
}

func TestExecute_CancelOutsideWindowNoFee(t *testing.T) {
	// До начала 50 часов - вне окна, штрафа нет
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, date, "14:00")

	resp, err := env.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Event: "cancel"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
	assert.Nil(t, resp.Appointment.CancellationFee)
}

func TestExecute_RejectNeverCharges(t *testing.T) {
	// Отклонение администратором не начисляет штраф даже внутри окна
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusPending, date, "16:00")

	resp, err := env.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Event: "reject"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
	assert.Nil(t, resp.Appointment.CancellationFee)
}

func TestExecute_FinishRecordsServiceNotes(t *testing.T) {
	now := time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusInProgress, date, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "finish",
		ServiceNotes:  ptr.Ptr("trimmed shorter than usual"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, resp.Appointment.Status)
	require.NotNil(t, resp.Appointment.ServiceNotes)
	assert.Equal(t, "trimmed shorter than usual", *resp.Appointment.ServiceNotes)
}

func TestExecute_NoShow(t *testing.T) {
	now := time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, date, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{AppointmentID: appt.ID, Event: "no_show"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoShow, resp.Appointment.Status)
	require.Len(t, env.cache.dates, 1)
}

func TestExecute_TerminalStatusRejectsAnyEvent(t *testing.T) {
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusCancelled, date, "10:00")

	for _, event := range []string{"approve", "start", "finish", "cancel", "no_show", "reschedule"} {
		req := &Request{AppointmentID: appt.ID, Event: event}
		if event == "reschedule" {
			req.NewDate = ptr.Ptr(date.AddDate(0, 0, 1))
			req.NewStartTime = ptr.Ptr(types.TimeString("10:00"))
		}
		_, err := env.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidTransition, "event %s", event)
	}
}

func TestExecute_ForbiddenForOtherClient(t *testing.T) {
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, date, "10:00")

	_, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "cancel",
		ClientRef:     ptr.Ptr("client-2"),
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_OwnerMayCancel(t *testing.T) {
	now := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusPending, date, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "cancel",
		ClientRef:     ptr.Ptr("client-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Appointment.Status)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	env := newTestEnv(time.Now())

	_, err := env.uc.Execute(context.Background(), &Request{AppointmentID: 999, Event: "approve"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_UnknownEvent(t *testing.T) {
	env := newTestEnv(time.Now())

	_, err := env.uc.Execute(context.Background(), &Request{AppointmentID: 1, Event: "destroy"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestExecute_Reschedule(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	oldDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	newDate := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, oldDate, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "reschedule",
		NewDate:       &newDate,
		NewStartTime:  ptr.Ptr(types.TimeString("14:00")),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRescheduled, resp.Appointment.Status)

	require.NotNil(t, resp.NewAppointment)
	assert.Equal(t, domain.StatusConfirmed, resp.NewAppointment.Status)
	assert.True(t, resp.NewAppointment.Date.Equal(newDate))
	assert.Equal(t, types.TimeString("14:00"), resp.NewAppointment.StartTime)
	assert.NotEqual(t, appt.Code, resp.NewAppointment.Code)

	// Снимки услуги, цены и клиента наследуются
	assert.Equal(t, appt.ServiceID, resp.NewAppointment.ServiceID)
	assert.Equal(t, appt.ServiceName, resp.NewAppointment.ServiceName)
	assert.Equal(t, appt.DurationMinutes, resp.NewAppointment.DurationMinutes)
	assert.Equal(t, appt.Price, resp.NewAppointment.Price)
	assert.Equal(t, appt.ClientRef, resp.NewAppointment.ClientRef)

	// Событие смены статуса плюс событие создания новой записи
	require.Len(t, env.events.events, 2)
	assert.Equal(t, domain.EventTypeStatusChanged, env.events.events[0].Type)
	assert.Equal(t, domain.EventTypeAppointmentCreated, env.events.events[1].Type)

	// Кеш сбрасывается для старой и новой даты
	require.Len(t, env.cache.dates, 2)
	assert.True(t, env.cache.dates[0].Equal(oldDate))
	assert.True(t, env.cache.dates[1].Equal(newDate))
}

func TestExecute_RescheduleConflictOnNewDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	oldDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	newDate := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, oldDate, "10:00")

	// Чужая запись уже занимает 14:00 на новой дате
	env.repo.add(&domain.Appointment{
		ClientRef:       "client-2",
		Date:            newDate,
		StartTime:       "14:00",
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	})

	_, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "reschedule",
		NewDate:       &newDate,
		NewStartTime:  ptr.Ptr(types.TimeString("14:00")),
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_RescheduleSameDayKeepsSlot(t *testing.T) {
	// Перенос в пределах той же даты: старая запись исключается из
	// проверки конфликтов и не блокирует собственный интервал
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, date, "10:00")

	resp, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "reschedule",
		NewDate:       &date,
		NewStartTime:  ptr.Ptr(types.TimeString("10:30")),
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:30"), resp.NewAppointment.StartTime)
}

func TestExecute_RescheduleToBlackedOutDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	oldDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	newDate := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	appt := storedAppointment(env, domain.StatusConfirmed, oldDate, "10:00")
	env.schedule.blackout = &domain.BlackoutDate{Date: newDate, Type: domain.BlackoutHoliday}

	_, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: appt.ID,
		Event:         "reschedule",
		NewDate:       &newDate,
		NewStartTime:  ptr.Ptr(types.TimeString("14:00")),
	})
	assert.ErrorIs(t, err, ErrDateBlackedOut)
}

func TestExecute_RescheduleRequiresNewSlot(t *testing.T) {
	env := newTestEnv(time.Now())

	_, err := env.uc.Execute(context.Background(), &Request{AppointmentID: 1, Event: "reschedule"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
