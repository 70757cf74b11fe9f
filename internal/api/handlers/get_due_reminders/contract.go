package get_due_reminders

import (
	"context"

	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetDueReminders(ctx context.Context, limit int) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
