package schedule

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWorkingHours(ctx context.Context) (domain.WorkingHours, error)
	UpdateWorkingHours(ctx context.Context, weekday time.Weekday, day domain.DaySchedule) error
	GetSettings(ctx context.Context) (*domain.ScheduleSettings, error)
	UpdateSettings(ctx context.Context, settings *domain.ScheduleSettings) error
	GetBlackout(ctx context.Context, date time.Time) (*domain.BlackoutDate, error)
	ListBlackouts(ctx context.Context, from time.Time) ([]*domain.BlackoutDate, error)
	CreateBlackout(ctx context.Context, blackout *domain.BlackoutDate) error
	DeleteBlackout(ctx context.Context, date time.Time) error
}

// CacheInvalidator интерфейс для сброса кеша доступности
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
