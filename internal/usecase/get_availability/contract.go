package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByDate получает записи на дату; onlyBlocking - только занимающие слот
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

// AvailabilityCache интерфейс кеша рассчитанных слотов
type AvailabilityCache interface {
	Get(ctx context.Context, date time.Time, serviceID int64, addOnIDs []int64) ([]domain.Slot, bool)
	Set(ctx context.Context, date time.Time, serviceID int64, addOnIDs []int64, slots []domain.Slot)
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
