package delete_blackout

import (
	"context"
	"time"
)

type ScheduleService interface {
	DeleteBlackout(ctx context.Context, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
