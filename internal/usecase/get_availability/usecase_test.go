package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
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

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByDate(_ context.Context, _ time.Time, _ bool) ([]*domain.Appointment, error) {
	return f.appointments, nil
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
	if len(f.addOns) != len(addOnIDs) {
		return nil, catalogservice.ErrAddOnNotFound
	}
	return f.addOns, nil
}

type fakeCache struct {
	slots    []domain.Slot
	hit      bool
	setCalls int
}

func (f *fakeCache) Get(_ context.Context, _ time.Time, _ int64, _ []int64) ([]domain.Slot, bool) {
	return f.slots, f.hit
}

func (f *fakeCache) Set(_ context.Context, _ time.Time, _ int64, _ []int64, slots []domain.Slot) {
	f.setCalls++
	f.slots = slots
}

// --- Хелперы ---

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
		BufferMinutes:           15,
		SlotGranularityMinutes:  30,
		MinimumLeadMinutes:      60,
		ReminderHours:           24,
	}
}

func newTestUseCase(
	appointments *fakeAppointmentRepo,
	schedule *fakeScheduleRepo,
	catalog *fakeCatalogClient,
	cache *fakeCache,
	now time.Time,
) *UseCase {
	uc := NewUseCase(appointments, schedule, catalog, cache, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

// --- Тесты ---

func TestExecute_GeneratesSlots(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // Monday
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "12:00"), settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.True(t, resp.Open)
	assert.Equal(t, 60, resp.DurationMinutes)

	// 09:00-12:00 with 60 min duration and 30 min step: last start is 11:00
	wantStarts := []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00"}
	require.Len(t, resp.Slots, len(wantStarts))
	for i, slot := range resp.Slots {
		assert.Equal(t, wantStarts[i], slot.StartTime)
		assert.True(t, slot.Available)
	}
}

func TestExecute_AddOnsExtendDuration(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "11:00"), settings: testSettings()},
		&fakeCatalogClient{
			service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true},
			addOns: []catalogservice.AddOn{
				{ID: 5, ExtraMinutes: 30, CompatibleServiceIDs: []int64{1}},
			},
		},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, AddOnIDs: []int64{5}, Date: date})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)

	// 90 minutes must fit by 11:00, so only 09:00 and 09:30 remain
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[1].StartTime)
}

func TestExecute_IncompatibleAddOn(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "18:00"), settings: testSettings()},
		&fakeCatalogClient{
			service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true},
			addOns: []catalogservice.AddOn{
				{ID: 5, ExtraMinutes: 30, CompatibleServiceIDs: []int64{99}},
			},
		},
		&fakeCache{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, AddOnIDs: []int64{5}, Date: date})
	assert.ErrorIs(t, err, ErrAddOnIncompatible)
}

func TestExecute_BookedIntervalsUnavailable(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Existing appointment 10:00-11:00 with 15 min buffer blocks [10:00, 11:15)
	appointments := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{
			{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}

	uc := newTestUseCase(
		appointments,
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "13:00"), settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	availability := map[types.TimeString]bool{}
	for _, slot := range resp.Slots {
		availability[slot.StartTime] = slot.Available
	}

	assert.True(t, availability["09:00"]) // ends exactly at 10:00, touching is allowed
	assert.False(t, availability["09:30"])
	assert.False(t, availability["10:00"])
	assert.False(t, availability["10:30"])
	assert.False(t, availability["11:00"]) // starts inside the buffer
	assert.True(t, availability["11:30"])
	assert.True(t, availability["12:00"])
}

func TestExecute_SameDayLeadFilter(t *testing.T) {
	now := time.Date(2026, 9, 7, 9, 10, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "12:00"), settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	// 09:10 + 60 min lead = 10:10, the first allowed start is 10:30
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[1].StartTime)
}

func TestExecute_PastDate(t *testing.T) {
	now := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "18:00"), settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_BlackoutDate(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{
			workingHours: allDaysOpen("09:00", "18:00"),
			settings:     testSettings(),
			blackout:     &domain.BlackoutDate{Date: date, Reason: "vacation", Type: domain.BlackoutVacation},
		},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.False(t, resp.Open)
	require.NotNil(t, resp.ClosedReason)
	assert.Equal(t, "vacation", *resp.ClosedReason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC) // Sunday
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	hours := allDaysOpen("09:00", "18:00")
	hours.Sunday = domain.DaySchedule{IsOpen: false}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: hours, settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.False(t, resp.Open)
	assert.Nil(t, resp.ClosedReason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CacheHitSkipsComputation(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cached := []domain.Slot{{StartTime: "09:00", Available: true}}
	cache := &fakeCache{slots: cached, hit: true}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "18:00"), settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		cache,
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.Equal(t, cached, resp.Slots)
	assert.Zero(t, cache.setCalls)
}

func TestExecute_CacheMissPopulatesCache(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cache := &fakeCache{}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "12:00"), settings: testSettings()},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		cache,
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.setCalls)
	assert.Equal(t, resp.Slots, cache.slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "18:00"), settings: testSettings()},
		&fakeCatalogClient{},
		&fakeCache{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 42, Date: date})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_MissingSettingsFallsBackToDefaults(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{workingHours: allDaysOpen("09:00", "11:00"), settings: nil},
		&fakeCatalogClient{service: &catalogservice.Service{ID: 1, DurationMinutes: 60, Active: true}},
		&fakeCache{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	// Default granularity is 30 minutes
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[2].StartTime)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{},
		&fakeCatalogClient{},
		&fakeCache{},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
