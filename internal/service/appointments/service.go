package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	apptRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/LBS-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments/models"
)

// Service сервис чтения записей: карточка, история клиента,
// расписание дня и предпросмотр очереди напоминаний
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент может видеть только свою запись: clientRef передается для
// клиентских запросов, для админских остается nil
func (s *Service) GetByID(ctx context.Context, id int64, clientRef *string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if clientRef != nil && appointment.ClientRef != *clientRef {
		s.logger.Warn("GetByID: access denied for client=%s to appointment id=%d", *clientRef, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%s, status=%v", req.ClientRef, req.Status)

	if req.ClientRef == "" {
		return nil, fmt.Errorf("%w: clientRef is required", ErrInvalidInput)
	}

	// Конвертируем статус из строки в domain.AppointmentStatus
	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%s", *req.Status, req.ClientRef)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByClientRef(ctx, req.ClientRef, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%s: %v", req.ClientRef, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%s", len(appointments), req.ClientRef)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetDaySchedule получает все записи на дату для администратора.
// По умолчанию только занимающие слот; includeInactive добавляет
// отмененные, завершенные и перенесенные.
func (s *Service) GetDaySchedule(ctx context.Context, req *models.GetDayScheduleRequest) (*models.DayScheduleResponse, error) {
	s.logger.Info("GetDaySchedule: fetching schedule for date=%s, includeInactive=%t",
		req.Date.Format(domain.DateFormat), req.IncludeInactive)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByDate(ctx, req.Date, !req.IncludeInactive)
	if err != nil {
		s.logger.Error("GetDaySchedule: repository error for date=%s: %v", req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDaySchedule - repository error: %v", ErrInternal, err)
	}

	list := models.FromDomainAppointmentList(appointments)

	s.logger.Info("GetDaySchedule: successfully fetched %d appointments for date=%s",
		len(list.Appointments), req.Date.Format(domain.DateFormat))

	return &models.DayScheduleResponse{
		Date:         req.Date.Format(domain.DateFormat),
		Appointments: list.Appointments,
	}, nil
}

// GetDueReminders получает записи, попавшие в окно напоминаний, без их
// отметки. Используется админским эндпоинтом для просмотра очереди.
func (s *Service) GetDueReminders(ctx context.Context, limit int) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDueReminders: fetching due reminders, limit=%d", limit)

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	reminderHours := domain.DefaultReminderHours
	settings, err := s.scheduleRepo.GetSettings(ctx)
	if err != nil && !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
		s.logger.Error("GetDueReminders: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: GetDueReminders - failed to get settings: %v", ErrInternal, err)
	}
	if settings != nil {
		reminderHours = settings.ReminderHours
	}

	appointments, err := s.appointmentRepo.ListDueReminders(ctx, time.Now(), reminderHours, limit)
	if err != nil {
		s.logger.Error("GetDueReminders: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetDueReminders - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDueReminders: %d reminders due", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}
