package create_blackout

import (
	"errors"
	"net/http"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgInvalidBlackout    = "некорректные параметры блокировки"
	msgBlackoutExists     = "дата уже заблокирована"
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

// Handle POST /api/v1/schedule/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedule/blackouts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /schedule/blackouts - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.CreateBlackout(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /schedule/blackouts - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBlackout)

		case errors.Is(err, schedule.ErrBlackoutExists):
			h.logger.Warn("POST /schedule/blackouts - Date %s is already blocked", req.Date)
			handlers.RespondConflict(w, msgBlackoutExists)

		default:
			h.logger.Error("POST /schedule/blackouts - Failed to create blackout: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedule/blackouts - Date %s blocked successfully", req.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
