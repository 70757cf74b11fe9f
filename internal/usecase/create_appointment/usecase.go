package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
	clientClient "github.com/m04kA/LBS-SchedulingService/internal/integrations/clientservice"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	clientClient    ClientServiceClient
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
	catalogClient CatalogServiceClient,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	events EventPublisher,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogClient:   catalogClient,
		clientClient:    clientClient,
		txManager:       txManager,
		events:          events,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// два конкурентных запроса на пересекающиеся интервалы не могут пройти оба
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%s, service=%d, addons=%v, date=%s, time=%s",
		req.ClientRef, req.ServiceID, req.AddOnIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем дополнения и проверяем совместимость с услугой
	addOns, err := uc.catalogClient.GetAddOns(ctx, req.AddOnIDs)
	if err != nil {
		if errors.Is(err, catalogClient.ErrAddOnNotFound) {
			uc.logger.Warn("CreateAppointment: add-ons %v not found", req.AddOnIDs)
			return nil, ErrAddOnNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get add-ons %v: %v", req.AddOnIDs, err)
		return nil, fmt.Errorf("%w: failed to get add-ons: %v", ErrInternal, err)
	}

	if err := validateAddOns(addOns, req.ServiceID); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 5. Суммарная длительность и цена: услуга + все дополнения
	totalDuration := service.DurationMinutes
	totalPrice := service.Price
	addOnNames := make([]string, 0, len(addOns))
	for _, addOn := range addOns {
		totalDuration += addOn.ExtraMinutes
		totalPrice += addOn.ExtraPrice
		addOnNames = append(addOnNames, addOn.Name)
	}

	// 6. Получаем профиль клиента для снимка контактов
	// При недоступности ClientService запись создается только со ссылкой
	var clientName string
	var clientEmail, clientPhone *string

	profile, err := uc.clientClient.GetProfileWithGracefulDegradation(ctx, req.ClientRef)
	if err != nil {
		if errors.Is(err, clientClient.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client %s not found", req.ClientRef)
			return nil, ErrClientNotFound
		}
		uc.logger.Warn("CreateAppointment: proceeding without client snapshot for %s: %v", req.ClientRef, err)
	} else {
		clientName = profile.Name
		clientEmail = profile.Email
		clientPhone = profile.Phone
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Blackout перекрывает день целиком
		blackout, err := uc.scheduleRepo.GetBlackout(txCtx, req.Date)
		if err != nil && !errors.Is(err, scheduleRepo.ErrBlackoutNotFound) {
			uc.logger.Error("CreateAppointment: failed to get blackout: %v", err)
			return fmt.Errorf("%w: failed to get blackout: %v", ErrInternal, err)
		}
		if blackout != nil {
			uc.logger.Warn("CreateAppointment: date %s is blacked out (%s)", req.Date.Format(domain.DateFormat), blackout.Type)
			return ErrDateBlackedOut
		}

		// 7.2. Рабочие часы на день недели
		workingHours, err := uc.scheduleRepo.GetWorkingHours(txCtx)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get working hours: %v", err)
			return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
		}

		daySchedule := workingHours.ForDate(req.Date)
		if !daySchedule.IsOpen {
			uc.logger.Warn("CreateAppointment: closed on %s", req.Date.Format(domain.DateFormat))
			return ErrClosedOnDate
		}

		// 7.3. Настройки политики бронирования
		// auto-confirm читается ровно один раз, внутри той же транзакции
		settings, err := uc.getSettings(txCtx)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}

		// 7.4. Время начала лежит на сетке и услуга помещается до закрытия
		if err := validateTimeSlot(req.StartTime, totalDuration, daySchedule, settings.SlotGranularityMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: time slot validation failed: %v", err)
			return err
		}

		// 7.5. Запись на сегодня не нарушает minimumLeadMinutes
		if err := validateLeadTime(req.Date, req.StartTime, now, settings.MinimumLeadMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: lead time validation failed: %v", err)
			return err
		}

		// 7.6. Получаем занимающие слот записи на дату с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.GetByDate(txCtx, req.Date, true)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 7.7. Проверяем отсутствие пересечений с учетом буфера
		if !domain.IsSlotFree(req.StartTime, totalDuration, appointments, settings.BufferMinutes) {
			uc.logger.Warn("CreateAppointment: slot %s on %s conflicts with an existing appointment",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotConflict
		}

		status := domain.StatusPending
		if settings.AutoConfirmBookings {
			status = domain.StatusConfirmed
		}

		// 7.8. Создаем запись с денормализацией данных
		appointment := &domain.Appointment{
			Code:            uuid.NewString(),
			ServiceID:       req.ServiceID,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			AddOnIDs:        req.AddOnIDs,
			AddOnNames:      addOnNames,
			ClientRef:       req.ClientRef,
			ClientName:      clientName,
			ClientEmail:     clientEmail,
			ClientPhone:     clientPhone,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: totalDuration,
			Price:           totalPrice,
			Status:          status,
			PaymentStatus:   domain.PaymentUnpaid,
			Notes:           req.Notes,
		}

		// 7.9. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d code=%s status=%s",
		result.ID, result.Code, result.Status)

	// 8. Публикуем событие и сбрасываем кеш доступности на дату
	uc.events.Publish(domain.Event{
		Type:        domain.EventTypeAppointmentCreated,
		Appointment: result,
		OccurredAt:  now,
	})
	uc.cache.InvalidateDate(ctx, req.Date)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		Code:            result.Code,
		ClientRef:       result.ClientRef,
		ServiceID:       result.ServiceID,
		AddOnIDs:        result.AddOnIDs,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Price:           result.Price,
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		ServiceName:     result.ServiceName,
		AddOnNames:      result.AddOnNames,
		ClientName:      result.ClientName,
		ClientEmail:     result.ClientEmail,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
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
