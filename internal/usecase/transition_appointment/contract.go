package transition_appointment

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByID получает запись; в транзакции строка блокируется FOR UPDATE
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByDate(ctx context.Context, date time.Time, onlyBlocking bool) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// UpdateStatus выполняет условную смену статуса: WHERE status = from
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error
	// Cancel выполняет условную отмену с фиксацией причины и штрафа
	Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason string, fee *float64) error
	SetServiceNotes(ctx context.Context, id int64, notes string) error
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWorkingHours(ctx context.Context) (domain.WorkingHours, error)
	GetSettings(ctx context.Context) (*domain.ScheduleSettings, error)
	GetBlackout(ctx context.Context, date time.Time) (*domain.BlackoutDate, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс для публикации доменных событий
type EventPublisher interface {
	Publish(event domain.Event)
}

// CacheInvalidator интерфейс для сброса кеша доступности
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
