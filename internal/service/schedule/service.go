package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/LBS-SchedulingService/internal/service/schedule/models"
)

// Service сервис управления расписанием: политика бронирования,
// рабочие часы и blackout-даты. Все операции админские.
type Service struct {
	scheduleRepo ScheduleRepository
	cache        CacheInvalidator
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetSettings получает политику бронирования.
// Отсутствие строки настроек маскируется дефолтами: эндпоинт
// настроек всегда отвечает полной политикой.
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching booking policy")

	settings, err := s.scheduleRepo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			return models.FromDomainSettings(&domain.ScheduleSettings{
				CancellationWindowHours: domain.DefaultCancellationWindowHours,
				CancellationFeeAmount:   domain.DefaultCancellationFeeAmount,
				BufferMinutes:           domain.DefaultBufferMinutes,
				SlotGranularityMinutes:  domain.DefaultSlotGranularityMinutes,
				MinimumLeadMinutes:      domain.DefaultMinimumLeadMinutes,
				ReminderHours:           domain.DefaultReminderHours,
			}), nil
		}
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// UpdateSettings обновляет политику бронирования
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating booking policy")

	if err := validateSettings(req); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, err
	}

	settings := req.ToDomain()
	if err := s.scheduleRepo.UpdateSettings(ctx, settings); err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	updated, err := s.scheduleRepo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("UpdateSettings: failed to reload settings: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - failed to reload settings: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: booking policy updated")
	return models.FromDomainSettings(updated), nil
}

// GetWorkingHours получает недельное расписание работы
func (s *Service) GetWorkingHours(ctx context.Context) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("GetWorkingHours: fetching weekly schedule")

	hours, err := s.scheduleRepo.GetWorkingHours(ctx)
	if err != nil {
		s.logger.Error("GetWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWorkingHours(hours), nil
}

// UpdateWorkingHours обновляет расписание одного дня недели
func (s *Service) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("UpdateWorkingHours: updating weekday=%d", req.Weekday)

	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
	}

	day, err := req.ToDomainDaySchedule()
	if err != nil {
		s.logger.Warn("UpdateWorkingHours: invalid time format: %v", err)
		return nil, fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if day.IsOpen && !day.OpenTime.IsBefore(day.CloseTime) {
		return nil, fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	if err := s.scheduleRepo.UpdateWorkingHours(ctx, time.Weekday(req.Weekday), day); err != nil {
		s.logger.Error("UpdateWorkingHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	hours, err := s.scheduleRepo.GetWorkingHours(ctx)
	if err != nil {
		s.logger.Error("UpdateWorkingHours: failed to reload schedule: %v", err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - failed to reload schedule: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingHours: weekday=%d updated", req.Weekday)
	return models.FromDomainWorkingHours(hours), nil
}

// ListBlackouts получает заблокированные даты начиная с сегодняшней
func (s *Service) ListBlackouts(ctx context.Context, from time.Time) (*models.BlackoutListResponse, error) {
	s.logger.Info("ListBlackouts: fetching blackouts from %s", from.Format(domain.DateFormat))

	blackouts, err := s.scheduleRepo.ListBlackouts(ctx, from)
	if err != nil {
		s.logger.Error("ListBlackouts: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlackouts - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlackoutList(blackouts), nil
}

// CreateBlackout блокирует дату для новых записей.
// Существующие записи на эту дату не затрагиваются.
func (s *Service) CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("CreateBlackout: blocking date=%s type=%s", req.Date.Format(domain.DateFormat), req.Type)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	blackoutType := domain.BlackoutType(req.Type)
	if req.Type == "" {
		blackoutType = domain.BlackoutUnavailable
	}
	if !blackoutType.IsValid() {
		return nil, fmt.Errorf("%w: unknown blackout type %q", ErrInvalidInput, req.Type)
	}

	blackout := &domain.BlackoutDate{
		Date:   req.Date,
		Reason: req.Reason,
		Type:   blackoutType,
	}

	if err := s.scheduleRepo.CreateBlackout(ctx, blackout); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlackoutExists) {
			s.logger.Warn("CreateBlackout: date=%s is already blocked", req.Date.Format(domain.DateFormat))
			return nil, ErrBlackoutExists
		}
		s.logger.Error("CreateBlackout: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	// Слоты на заблокированную дату больше не действительны
	s.cache.InvalidateDate(ctx, req.Date)

	created, err := s.scheduleRepo.GetBlackout(ctx, req.Date)
	if err != nil {
		s.logger.Error("CreateBlackout: failed to reload blackout: %v", err)
		return nil, fmt.Errorf("%w: CreateBlackout - failed to reload blackout: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: date=%s blocked", req.Date.Format(domain.DateFormat))
	return models.FromDomainBlackout(created), nil
}

// DeleteBlackout снова открывает дату для записей
func (s *Service) DeleteBlackout(ctx context.Context, date time.Time) error {
	s.logger.Info("DeleteBlackout: unblocking date=%s", date.Format(domain.DateFormat))

	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := s.scheduleRepo.DeleteBlackout(ctx, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: date=%s is not blocked", date.Format(domain.DateFormat))
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	s.cache.InvalidateDate(ctx, date)

	s.logger.Info("DeleteBlackout: date=%s unblocked", date.Format(domain.DateFormat))
	return nil
}

// validateSettings проверяет границы значений политики бронирования
func validateSettings(req *models.UpdateSettingsRequest) error {
	if req.CancellationWindowHours < domain.MinCancellationWindow || req.CancellationWindowHours > domain.MaxCancellationWindow {
		return fmt.Errorf("%w: cancellationWindowHours must be between %d and %d",
			ErrInvalidInput, domain.MinCancellationWindow, domain.MaxCancellationWindow)
	}
	if req.CancellationFeeAmount < 0 {
		return fmt.Errorf("%w: cancellationFeeAmount must not be negative", ErrInvalidInput)
	}
	if req.BufferMinutes < domain.MinBufferMinutes || req.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if req.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || req.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}
	if req.MinimumLeadMinutes < domain.MinLeadMinutes || req.MinimumLeadMinutes > domain.MaxLeadMinutes {
		return fmt.Errorf("%w: minimumLeadMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinLeadMinutes, domain.MaxLeadMinutes)
	}
	if req.ReminderHours <= 0 {
		return fmt.Errorf("%w: reminderHours must be positive", ErrInvalidInput)
	}
	return nil
}
