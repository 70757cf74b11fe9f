package create_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/clientservice"
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

// fakeAppointmentRepo in-memory хранилище записей
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	nextID       int64
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	created := *appt
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.appointments = append(f.appointments, &created)
	return &created, nil
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
		result = append(result, appt)
	}
	return result, nil
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

type fakeCatalogClient struct {
	service *catalogservice.Service
	addOns  []catalogservice.AddOn
}

func (f *fakeCatalogClient) GetService(_ context.Context, _ int64) (*catalogservice.Service, error) {
	if f.service == nil {
		return nil, catalogservice.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeCatalogClient) GetAddOns(_ context.Context, addOnIDs []int64) ([]catalogservice.AddOn, error) {
	if len(addOnIDs) == 0 {
		return nil, nil
	}
	return f.addOns, nil
}

type fakeClientClient struct {
	profile *clientservice.Profile
	err     error
}

func (f *fakeClientClient) GetProfileWithGracefulDegradation(_ context.Context, _ string) (*clientservice.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// fakeTxManager сериализует транзакции мьютексом: конкурентные вызовы
// видят результаты друг друга, как при SERIALIZABLE в Postgres
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
	client   *fakeClientClient
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
	repo := &fakeAppointmentRepo{}
	schedule := &fakeScheduleRepo{
		workingHours: allDaysOpen("09:00", "18:00"),
		settings:     testSettings(),
	}
	catalog := &fakeCatalogClient{
		service: &catalogservice.Service{ID: 1, Name: "Haircut", DurationMinutes: 60, Price: 50, Active: true},
	}
	client := &fakeClientClient{
		profile: &clientservice.Profile{
			Ref:   "client-1",
			Name:  "Alice",
			Email: ptr.Ptr("alice@example.com"),
		},
	}
	events := &fakeEventPublisher{}
	cache := &fakeCacheInvalidator{}

	uc := NewUseCase(repo, schedule, catalog, client, &fakeTxManager{}, events, cache, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &testEnv{uc: uc, repo: repo, schedule: schedule, events: events, cache: cache, client: client}
}

func validRequest(date time.Time) *Request {
	return &Request{
		ClientRef: "client-1",
		ServiceID: 1,
		Date:      date,
		StartTime: "10:00",
	}
}

// --- Тесты ---

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	resp, err := env.uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.NotEmpty(t, resp.Code)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.Equal(t, "Alice", resp.ClientName)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 50.0, resp.Price)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, domain.EventTypeAppointmentCreated, env.events.events[0].Type)

	require.Len(t, env.cache.dates, 1)
	assert.True(t, env.cache.dates[0].Equal(date))
}

func TestExecute_AutoConfirm(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	env.schedule.settings.AutoConfirmBookings = true

	resp, err := env.uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_AddOnsExtendDurationAndPrice(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	catalog := &fakeCatalogClient{
		service: &catalogservice.Service{ID: 1, Name: "Haircut", DurationMinutes: 60, Price: 50, Active: true},
		addOns: []catalogservice.AddOn{
			{ID: 5, Name: "Beard trim", ExtraMinutes: 15, ExtraPrice: 10, CompatibleServiceIDs: []int64{1}},
		},
	}
	env.uc.catalogClient = catalog

	req := validRequest(date)
	req.AddOnIDs = []int64{5}

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 75, resp.DurationMinutes)
	assert.Equal(t, 60.0, resp.Price)
	assert.Equal(t, []string{"Beard trim"}, resp.AddOnNames)
}

func TestExecute_SlotConflict(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	_, err := env.uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	// Второй запрос на тот же интервал отклоняется
	req := validRequest(date)
	req.ClientRef = "client-2"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_BufferedConflict(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	_, err := env.uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	// 11:00 попадает в буфер после записи 10:00-11:00 (+15 минут)
	req := validRequest(date)
	req.StartTime = "11:00"
	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)

	// 11:30 уже за пределами буфера
	req = validRequest(date)
	req.StartTime = "11:30"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_DateBlackedOut(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	env.schedule.blackout = &domain.BlackoutDate{Date: date, Type: domain.BlackoutVacation}

	_, err := env.uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrDateBlackedOut)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC) // Sunday

	env := newTestEnv(now)
	env.schedule.workingHours.Sunday = domain.DaySchedule{IsOpen: false}

	_, err := env.uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrClosedOnDate)
}

func TestExecute_MisalignedStartTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	// 10:15 не лежит на 30-минутной сетке от 09:00
	req := validRequest(date)
	req.StartTime = "10:15"
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_DoesNotFitBeforeClosing(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	// 60 минут с 17:30 выходит за закрытие в 18:00
	req := validRequest(date)
	req.StartTime = "17:30"
	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_TooLateToBook(t *testing.T) {
	now := time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	// 10:00 сегодня ближе 60 минут от 09:30
	_, err := env.uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_PastDate(t *testing.T) {
	now := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	_, err := env.uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ClientNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	env.client.profile = nil
	env.client.err = clientservice.ErrClientNotFound

	_, err := env.uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestExecute_ClientServiceDegraded(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)
	env.client.profile = nil
	env.client.err = clientservice.ErrServiceDegraded

	// Запись создается без снимка контактов
	resp, err := env.uc.Execute(context.Background(), validRequest(date))
	require.NoError(t, err)

	assert.Equal(t, "client-1", resp.ClientRef)
	assert.Empty(t, resp.ClientName)
	assert.Nil(t, resp.ClientEmail)
}

func TestExecute_ConcurrentRequestsSameSlot(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	env := newTestEnv(now)

	const goroutines = 10

	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(context.Background(), validRequest(date))
		}(i)
	}
	wg.Wait()

	success := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case assert.ErrorIs(t, err, ErrSlotConflict):
			conflicts++
		}
	}

	assert.Equal(t, 1, success, "exactly one request must win the slot")
	assert.Equal(t, goroutines-1, conflicts)

	stored, err := env.repo.GetByDate(context.Background(), date, true)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestExecute_InvalidInput(t *testing.T) {
	env := newTestEnv(time.Now())
	date := time.Now().AddDate(0, 0, 7)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "missing client ref", req: &Request{ServiceID: 1, Date: date, StartTime: "10:00"}},
		{name: "zero service id", req: &Request{ClientRef: "c", Date: date, StartTime: "10:00"}},
		{name: "missing date", req: &Request{ClientRef: "c", ServiceID: 1, StartTime: "10:00"}},
		{name: "missing start time", req: &Request{ClientRef: "c", ServiceID: 1, Date: date}},
		{name: "bad start time", req: &Request{ClientRef: "c", ServiceID: 1, Date: date, StartTime: "25:99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
