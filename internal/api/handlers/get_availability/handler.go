package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/LBS-SchedulingService/internal/usecase/get_availability"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidAddOnIDs    = "некорректный список дополнений"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound    = "услуга не найдена"
	msgAddOnNotFound      = "дополнение не найдено"
	msgAddOnIncompatible  = "дополнение неприменимо к услуге"
	msgDateInPast         = "дата уже прошла"
	msgInvalidInput       = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?serviceId=1&date=2025-10-15&addOnIds=2,5
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	addOnIDs, err := parseAddOnIDs(query.Get("addOnIds"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid add-on IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAddOnIDs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ServiceID: serviceID,
		AddOnIDs:  addOnIDs,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrAddOnNotFound):
			h.logger.Warn("GET /availability - Add-on not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgAddOnNotFound)

		case errors.Is(err, getAvailability.ErrAddOnIncompatible):
			h.logger.Warn("GET /availability - Add-on incompatible: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgAddOnIncompatible)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /availability - Date in the past: date=%s", date.Format(domain.DateFormat))
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /availability - Failed to compute availability: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - %d slots returned: service_id=%d, date=%s",
		len(result.Slots), serviceID, date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// parseAddOnIDs парсит список дополнений из query-параметра "2,5,7"
func parseAddOnIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
