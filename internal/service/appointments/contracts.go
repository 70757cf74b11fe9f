package appointments

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByDate(ctx context.Context, date time.Time, onlyBlocking bool) ([]*domain.Appointment, error)
	GetByClientRef(ctx context.Context, clientRef string, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListDueReminders(ctx context.Context, now time.Time, reminderHours int, limit int) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetSettings(ctx context.Context) (*domain.ScheduleSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
