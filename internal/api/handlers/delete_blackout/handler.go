package delete_blackout

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidDate      = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgBlackoutNotFound = "блокировка на указанную дату не найдена"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/schedule/blackouts/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /schedule/blackouts/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.DeleteBlackout(r.Context(), date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /schedule/blackouts/{date} - Blackout not found: date=%s", vars["date"])
			handlers.RespondNotFound(w, msgBlackoutNotFound)

		default:
			h.logger.Error("DELETE /schedule/blackouts/{date} - Failed to delete blackout: date=%s, error=%v", vars["date"], err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /schedule/blackouts/{date} - Date %s unblocked successfully", vars["date"])
	handlers.RespondNoContent(w)
}
