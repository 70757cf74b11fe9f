package reminder

import (
	"context"

	"github.com/m04kA/LBS-SchedulingService/internal/usecase/process_reminders"
)

// ProcessRemindersUseCase интерфейс use case обработки напоминаний
type ProcessRemindersUseCase interface {
	Execute(ctx context.Context, req *process_reminders.Request) (*process_reminders.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
