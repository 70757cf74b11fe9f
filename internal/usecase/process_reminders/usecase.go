package process_reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
)

// UseCase use case для обработки созревших напоминаний.
// Выборка и отметка выполняются в одной транзакции с SKIP LOCKED,
// поэтому несколько экземпляров сервиса не отправляют напоминание дважды.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	events          EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		events:          events,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute обрабатывает одну партию напоминаний
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batchSize must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// Окно напоминаний берется из настроек политики
	settings, err := uc.getSettings(ctx)
	if err != nil {
		uc.logger.Error("ProcessReminders: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	processed := make([]*domain.Appointment, 0, req.BatchSize)
	skipped := 0

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		due, err := uc.appointmentRepo.ListDueReminders(txCtx, now, settings.ReminderHours, req.BatchSize)
		if err != nil {
			uc.logger.Error("ProcessReminders: failed to list due reminders: %v", err)
			return fmt.Errorf("%w: failed to list due reminders: %v", ErrInternal, err)
		}

		for _, appointment := range due {
			marked, err := uc.appointmentRepo.MarkReminderSent(txCtx, appointment.ID, now)
			if err != nil {
				uc.logger.Error("ProcessReminders: failed to mark reminder for id=%d: %v", appointment.ID, err)
				return fmt.Errorf("%w: failed to mark reminder: %v", ErrInternal, err)
			}
			if !marked {
				// Другой экземпляр успел отметить напоминание первым
				skipped++
				continue
			}

			appointment.ReminderSentAt = &now
			processed = append(processed, appointment)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// События публикуются после фиксации транзакции: откат не должен
	// приводить к отправленным уведомлениям
	for _, appointment := range processed {
		uc.events.Publish(domain.Event{
			Type:        domain.EventTypeReminderDue,
			Appointment: appointment,
			OccurredAt:  now,
		})
	}

	if len(processed) > 0 || skipped > 0 {
		uc.logger.Info("ProcessReminders: processed=%d skipped=%d", len(processed), skipped)
	}

	return &Response{
		Processed: processed,
		Skipped:   skipped,
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
