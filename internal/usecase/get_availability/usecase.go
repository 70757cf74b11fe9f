package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/LBS-SchedulingService/pkg/ptr"
)

// UseCase use case для расчета доступных слотов на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	cache           AvailabilityCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	cache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case расчета доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%d, addons=%v, date=%s",
		req.ServiceID, req.AddOnIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Прошедшая дата не имеет доступности
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailability: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем дополнения и проверяем совместимость с услугой
	addOns, err := uc.catalogClient.GetAddOns(ctx, req.AddOnIDs)
	if err != nil {
		if errors.Is(err, catalogClient.ErrAddOnNotFound) {
			uc.logger.Warn("GetAvailability: add-ons %v not found", req.AddOnIDs)
			return nil, ErrAddOnNotFound
		}
		uc.logger.Error("GetAvailability: failed to get add-ons %v: %v", req.AddOnIDs, err)
		return nil, fmt.Errorf("%w: failed to get add-ons: %v", ErrInternal, err)
	}

	if err := validateAddOns(addOns, req.ServiceID); err != nil {
		uc.logger.Warn("GetAvailability: %v", err)
		return nil, err
	}

	// 5. Суммарная длительность: услуга + все дополнения
	totalDuration := service.DurationMinutes
	for _, addOn := range addOns {
		totalDuration += addOn.ExtraMinutes
	}

	// 6. Проверяем кеш
	if cached, ok := uc.cache.Get(ctx, req.Date, req.ServiceID, req.AddOnIDs); ok {
		uc.logger.Info("GetAvailability: cache hit for date=%s, service=%d", req.Date.Format(domain.DateFormat), req.ServiceID)
		return &Response{
			Date:            req.Date,
			ServiceID:       req.ServiceID,
			AddOnIDs:        req.AddOnIDs,
			DurationMinutes: totalDuration,
			Open:            true,
			Slots:           cached,
		}, nil
	}

	// 7. Blackout перекрывает день целиком, независимо от рабочих часов
	blackout, err := uc.scheduleRepo.GetBlackout(ctx, req.Date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrBlackoutNotFound) {
		uc.logger.Error("GetAvailability: failed to get blackout: %v", err)
		return nil, fmt.Errorf("%w: failed to get blackout: %v", ErrInternal, err)
	}
	if blackout != nil {
		uc.logger.Info("GetAvailability: date %s is blacked out (%s)", req.Date.Format(domain.DateFormat), blackout.Type)
		return &Response{
			Date:            req.Date,
			ServiceID:       req.ServiceID,
			AddOnIDs:        req.AddOnIDs,
			DurationMinutes: totalDuration,
			Open:            false,
			ClosedReason:    ptr.Ptr(blackout.Reason),
			Slots:           []domain.Slot{},
		}, nil
	}

	// 8. Рабочие часы на день недели
	workingHours, err := uc.scheduleRepo.GetWorkingHours(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	daySchedule := workingHours.ForDate(req.Date)
	if !daySchedule.IsOpen {
		uc.logger.Info("GetAvailability: closed on %s", req.Date.Format(domain.DateFormat))
		return &Response{
			Date:            req.Date,
			ServiceID:       req.ServiceID,
			AddOnIDs:        req.AddOnIDs,
			DurationMinutes: totalDuration,
			Open:            false,
			Slots:           []domain.Slot{},
		}, nil
	}

	// 9. Настройки политики бронирования
	settings, err := uc.getSettings(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 10. Генерируем кандидатов начала с шагом granularity
	starts, err := generateCandidateStarts(
		daySchedule,
		settings.SlotGranularityMinutes,
		totalDuration,
		req.Date,
		now,
		settings.MinimumLeadMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate candidate starts: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 11. Получаем занимающие слот записи на дату
	appointments, err := uc.appointmentRepo.GetByDate(ctx, req.Date, true)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 12. Помечаем доступность каждого кандидата
	slots := markAvailability(starts, totalDuration, appointments, settings.BufferMinutes)

	uc.cache.Set(ctx, req.Date, req.ServiceID, req.AddOnIDs, slots)

	uc.logger.Info("GetAvailability: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		AddOnIDs:        req.AddOnIDs,
		DurationMinutes: totalDuration,
		Open:            true,
		Slots:           slots,
	}, nil
}

// getSettings получает настройки, подставляя дефолты при отсутствии строки
func (uc *UseCase) getSettings(ctx context.Context) (*domain.ScheduleSettings, error) {
	settings, err := uc.scheduleRepo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			return &domain.ScheduleSettings{
				CancellationWindowHours: domain.DefaultCancellationWindowHours,
				CancellationFeeAmount:   domain.DefaultCancellationFeeAmount,
				BufferMinutes:           domain.DefaultBufferMinutes,
				SlotGranularityMinutes:  domain.DefaultSlotGranularityMinutes,
				MinimumLeadMinutes:      domain.DefaultMinimumLeadMinutes,
				ReminderHours:           domain.DefaultReminderHours,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}
