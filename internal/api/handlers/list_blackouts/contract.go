package list_blackouts

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListBlackouts(ctx context.Context, from time.Time) (*models.BlackoutListResponse, error)
}

type TimeProvider interface {
	Now() time.Time
}

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
