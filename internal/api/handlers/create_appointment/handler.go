package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/api/middleware"
	createAppointment "github.com/m04kA/LBS-SchedulingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingClientRef   = "отсутствует идентификатор клиента"
	msgServiceNotFound    = "услуга не найдена"
	msgAddOnNotFound      = "дополнение не найдено"
	msgAddOnIncompatible  = "дополнение неприменимо к услуге"
	msgClientNotFound     = "клиент не найден"
	msgInvalidDate        = "некорректная дата записи"
	msgDateBlackedOut     = "дата закрыта для записи"
	msgClosedOnDate       = "в этот день приема нет"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для записи на этот слот"
	msgSlotConflict       = "выбранный интервал пересекается с существующей записью"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientRef, ok := middleware.GetClientRef(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing client ref")
		handlers.RespondUnauthorized(w, msgMissingClientRef)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientRef)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: client=%s, service_id=%d", clientRef, req.ServiceID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrAddOnNotFound):
			h.logger.Warn("POST /appointments - Add-on not found: client=%s", clientRef)
			handlers.RespondNotFound(w, msgAddOnNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: client=%s", clientRef)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrAddOnIncompatible):
			h.logger.Warn("POST /appointments - Add-on incompatible: client=%s, service_id=%d", clientRef, req.ServiceID)
			handlers.RespondBadRequest(w, msgAddOnIncompatible)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: client=%s, date=%s", clientRef, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrDateBlackedOut):
			h.logger.Warn("POST /appointments - Date blacked out: client=%s, date=%s", clientRef, req.Date)
			handlers.RespondConflict(w, msgDateBlackedOut)

		case errors.Is(err, createAppointment.ErrClosedOnDate):
			h.logger.Warn("POST /appointments - Closed on date: client=%s, date=%s", clientRef, req.Date)
			handlers.RespondBadRequest(w, msgClosedOnDate)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: client=%s, time=%s", clientRef, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: client=%s, time=%s", clientRef, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client=%s, error=%v", clientRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, code=%s, client=%s",
		result.ID, result.Code, clientRef)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
