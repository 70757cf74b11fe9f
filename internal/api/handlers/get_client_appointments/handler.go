package get_client_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments"
	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments/models"
)

const (
	msgMissingClientRef = "отсутствует идентификатор клиента"
	msgInvalidStatus    = "некорректный статус"
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

// Handle GET /api/v1/clients/me/appointments?status=confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientRef, ok := middleware.GetClientRef(r.Context())
	if !ok {
		h.logger.Warn("GET /clients/me/appointments - Missing client ref")
		handlers.RespondUnauthorized(w, msgMissingClientRef)
		return
	}

	req := &models.GetClientAppointmentsRequest{
		ClientRef: clientRef,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetClientAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /clients/me/appointments - Invalid input: client=%s, error=%v", clientRef, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /clients/me/appointments - Failed to get appointments: client=%s, error=%v", clientRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clients/me/appointments - %d appointments returned: client=%s", len(result.Appointments), clientRef)
	handlers.RespondJSON(w, http.StatusOK, result)
}
