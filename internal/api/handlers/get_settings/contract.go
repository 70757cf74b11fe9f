package get_settings

import (
	"context"

	"github.com/m04kA/LBS-SchedulingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSettings(ctx context.Context) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
