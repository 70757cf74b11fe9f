package get_day_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments"
	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput = "некорректные параметры запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule/day?date=2025-10-15&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /schedule/day - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.GetDayScheduleRequest{
		Date:            date,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	result, err := h.service.GetDaySchedule(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /schedule/day - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /schedule/day - Failed to get schedule: date=%s, error=%v", query.Get("date"), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule/day - %d appointments returned: date=%s", len(result.Appointments), result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
