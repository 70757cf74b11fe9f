package get_day_schedule

import (
	"context"

	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetDaySchedule(ctx context.Context, req *models.GetDayScheduleRequest) (*models.DayScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
