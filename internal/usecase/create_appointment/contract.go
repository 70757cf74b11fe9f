package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/clientservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// GetByDate получает записи на дату; в транзакции строки блокируются FOR UPDATE
	GetByDate(ctx context.Context, date time.Time, onlyBlocking bool) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWorkingHours(ctx context.Context) (domain.WorkingHours, error)
	GetSettings(ctx context.Context) (*domain.ScheduleSettings, error)
	GetBlackout(ctx context.Context, date time.Time) (*domain.BlackoutDate, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
	GetAddOns(ctx context.Context, addOnIDs []int64) ([]catalogservice.AddOn, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, clientRef string) (*clientservice.Profile, error)
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
