package transition_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
)

// UseCase use case для перехода записи по жизненному циклу.
// Все смены статусов проходят через таблицу переходов домена и
// выполняются условными обновлениями: конкурентная смена статуса
// завершается ErrStatusConflict, а не молчаливой перезаписью.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	events          EventPublisher
	cache           CacheInvalidator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	events EventPublisher,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		events:          events,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет переход записи по событию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionAppointment: id=%d, event=%s", req.AppointmentID, req.Event)

	// 1. Валидация входных данных
	event, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("TransitionAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		updated    *domain.Appointment
		created    *domain.Appointment
		fromStatus domain.AppointmentStatus
	)
	invalidateDates := make([]time.Time, 0, 2)

	// 3. Выполняем переход в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем запись с блокировкой (FOR UPDATE)
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("TransitionAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("TransitionAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 3.2. Клиент может управлять только своей записью
		if req.ClientRef != nil && appointment.ClientRef != *req.ClientRef {
			uc.logger.Warn("TransitionAppointment: appointment id=%d belongs to %s, requested by %s",
				appointment.ID, appointment.ClientRef, *req.ClientRef)
			return ErrForbidden
		}

		// 3.3. Разрешаем переход через таблицу состояний
		fromStatus = appointment.Status
		toStatus, ok := domain.NextStatus(fromStatus, event)
		if !ok {
			uc.logger.Warn("TransitionAppointment: event %s is not allowed from status %s", event, fromStatus)
			return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, fromStatus)
		}

		// 3.4. Применяем событие
		switch event {
		case domain.EventCancel, domain.EventReject:
			if err := uc.applyCancel(txCtx, appointment, event, req.Reason, now); err != nil {
				return err
			}
			invalidateDates = append(invalidateDates, appointment.Date)

		case domain.EventFinish:
			if err := uc.conditionalUpdate(txCtx, appointment.ID, fromStatus, toStatus); err != nil {
				return err
			}
			if req.ServiceNotes != nil {
				if err := uc.appointmentRepo.SetServiceNotes(txCtx, appointment.ID, *req.ServiceNotes); err != nil {
					uc.logger.Error("TransitionAppointment: failed to set service notes: %v", err)
					return fmt.Errorf("%w: failed to set service notes: %v", ErrInternal, err)
				}
			}

		case domain.EventReschedule:
			newAppointment, err := uc.applyReschedule(txCtx, appointment, req, now)
			if err != nil {
				return err
			}
			created = newAppointment
			invalidateDates = append(invalidateDates, appointment.Date, *req.NewDate)

		case domain.EventNoShow:
			if err := uc.conditionalUpdate(txCtx, appointment.ID, fromStatus, toStatus); err != nil {
				return err
			}
			invalidateDates = append(invalidateDates, appointment.Date)

		default: // approve, start
			if err := uc.conditionalUpdate(txCtx, appointment.ID, fromStatus, toStatus); err != nil {
				return err
			}
		}

		// 3.5. Перечитываем запись после обновления
		updated, err = uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			uc.logger.Error("TransitionAppointment: failed to reload appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("TransitionAppointment: appointment id=%d moved %s -> %s", updated.ID, fromStatus, updated.Status)

	// 4. Публикуем события и сбрасываем кеш затронутых дат
	uc.events.Publish(domain.Event{
		Type:        domain.EventTypeStatusChanged,
		Appointment: updated,
		FromStatus:  fromStatus,
		ToStatus:    updated.Status,
		OccurredAt:  now,
	})
	if created != nil {
		uc.events.Publish(domain.Event{
			Type:        domain.EventTypeAppointmentCreated,
			Appointment: created,
			OccurredAt:  now,
		})
	}
	for _, date := range invalidateDates {
		uc.cache.InvalidateDate(ctx, date)
	}

	return &Response{
		Appointment:    updated,
		NewAppointment: created,
	}, nil
}

// applyCancel выполняет отмену с применением штрафной политики.
// Штраф начисляется только при отмене подтвержденной записи внутри
// окна cancellationWindowHours.
func (uc *UseCase) applyCancel(
	ctx context.Context,
	appointment *domain.Appointment,
	event domain.TransitionEvent,
	reqReason *string,
	now time.Time,
) error {
	reason := ""
	if reqReason != nil {
		reason = *reqReason
	}

	var fee *float64

	if event == domain.EventCancel && appointment.Status == domain.StatusConfirmed {
		settings, err := uc.getSettings(ctx)
		if err != nil {
			uc.logger.Error("TransitionAppointment: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}

		if settings.LateCancellation(appointment, now) {
			feeAmount := settings.CancellationFeeAmount
			fee = &feeAmount
			if reason == "" {
				reason = domain.LateCancellationReason
			}
			uc.logger.Info("TransitionAppointment: late cancellation of id=%d, fee=%.2f", appointment.ID, feeAmount)
		}
	}

	if err := uc.appointmentRepo.Cancel(ctx, appointment.ID, appointment.Status, reason, fee); err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			return ErrStatusConflict
		}
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		uc.logger.Error("TransitionAppointment: failed to cancel appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
	}

	return nil
}

// applyReschedule помечает старую запись rescheduled и создает новую на
// перенесенные дату и время, с теми же снимками услуги, цены и клиента.
// Обе операции выполняются в одной сериализуемой транзакции.
func (uc *UseCase) applyReschedule(
	ctx context.Context,
	appointment *domain.Appointment,
	req *Request,
	now time.Time,
) (*domain.Appointment, error) {
	newDate := *req.NewDate
	newStartTime := *req.NewStartTime

	if isDateInPast(newDate, now) {
		uc.logger.Warn("TransitionAppointment: new date %s is in the past", newDate.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: newDate is in the past", ErrInvalidInput)
	}

	// Blackout перекрывает день целиком
	blackout, err := uc.scheduleRepo.GetBlackout(ctx, newDate)
	if err != nil && !errors.Is(err, scheduleRepo.ErrBlackoutNotFound) {
		uc.logger.Error("TransitionAppointment: failed to get blackout: %v", err)
		return nil, fmt.Errorf("%w: failed to get blackout: %v", ErrInternal, err)
	}
	if blackout != nil {
		uc.logger.Warn("TransitionAppointment: new date %s is blacked out (%s)", newDate.Format(domain.DateFormat), blackout.Type)
		return nil, ErrDateBlackedOut
	}

	// Рабочие часы на день недели
	workingHours, err := uc.scheduleRepo.GetWorkingHours(ctx)
	if err != nil {
		uc.logger.Error("TransitionAppointment: failed to get working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	daySchedule := workingHours.ForDate(newDate)
	if !daySchedule.IsOpen {
		uc.logger.Warn("TransitionAppointment: closed on %s", newDate.Format(domain.DateFormat))
		return nil, ErrClosedOnDate
	}

	settings, err := uc.getSettings(ctx)
	if err != nil {
		uc.logger.Error("TransitionAppointment: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// Длительность записи сохраняется при переносе
	if err := validateTimeSlot(newStartTime, appointment.DurationMinutes, daySchedule, settings.SlotGranularityMinutes); err != nil {
		uc.logger.Warn("TransitionAppointment: time slot validation failed: %v", err)
		return nil, err
	}

	if err := validateLeadTime(newDate, newStartTime, now, settings.MinimumLeadMinutes); err != nil {
		uc.logger.Warn("TransitionAppointment: lead time validation failed: %v", err)
		return nil, err
	}

	// Занимающие слот записи на новую дату с блокировкой (FOR UPDATE).
	// Старая запись исключается из проверки: она освобождает интервал.
	appointments, err := uc.appointmentRepo.GetByDate(ctx, newDate, true)
	if err != nil {
		uc.logger.Error("TransitionAppointment: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	others := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.ID != appointment.ID {
			others = append(others, a)
		}
	}

	if !domain.IsSlotFree(newStartTime, appointment.DurationMinutes, others, settings.BufferMinutes) {
		uc.logger.Warn("TransitionAppointment: new slot %s on %s conflicts with an existing appointment",
			newStartTime, newDate.Format(domain.DateFormat))
		return nil, ErrSlotConflict
	}

	// Помечаем старую запись rescheduled
	if err := uc.conditionalUpdate(ctx, appointment.ID, appointment.Status, domain.StatusRescheduled); err != nil {
		return nil, err
	}

	// Новая запись наследует снимки услуги, цены и клиента; перенос
	// доступен только из confirmed, поэтому новая запись сразу confirmed
	newAppointment := &domain.Appointment{
		Code:            uuid.NewString(),
		ServiceID:       appointment.ServiceID,
		ServiceName:     appointment.ServiceName,
		ServicePrice:    appointment.ServicePrice,
		AddOnIDs:        appointment.AddOnIDs,
		AddOnNames:      appointment.AddOnNames,
		ClientRef:       appointment.ClientRef,
		ClientName:      appointment.ClientName,
		ClientEmail:     appointment.ClientEmail,
		ClientPhone:     appointment.ClientPhone,
		Date:            newDate,
		StartTime:       newStartTime,
		DurationMinutes: appointment.DurationMinutes,
		Price:           appointment.Price,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   appointment.PaymentStatus,
		Notes:           appointment.Notes,
	}

	created, err := uc.appointmentRepo.Create(ctx, newAppointment)
	if err != nil {
		uc.logger.Error("TransitionAppointment: failed to create rescheduled appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create rescheduled appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("TransitionAppointment: appointment id=%d rescheduled to id=%d (%s %s)",
		appointment.ID, created.ID, newDate.Format(domain.DateFormat), newStartTime)

	return created, nil
}

// conditionalUpdate выполняет условную смену статуса с маппингом ошибок репозитория
func (uc *UseCase) conditionalUpdate(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	if err := uc.appointmentRepo.UpdateStatus(ctx, id, from, to); err != nil {
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			return ErrStatusConflict
		}
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		uc.logger.Error("TransitionAppointment: failed to update status of id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}
	return nil
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
