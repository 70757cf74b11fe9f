package transition_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LBS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/LBS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	transitionAppointment "github.com/m04kA/LBS-SchedulingService/internal/usecase/transition_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingClientRef     = "отсутствует идентификатор клиента"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgInvalidEvent         = "неизвестное событие перехода"
	msgInvalidTransition    = "переход недопустим из текущего статуса"
	msgStatusConflict       = "статус записи изменился, повторите запрос"
	msgDateBlackedOut       = "новая дата закрыта для записи"
	msgClosedOnDate         = "в этот день приема нет"
	msgInvalidTimeSlot      = "некорректный временной слот"
	msgTooLateToBook        = "слишком поздно для переноса на этот слот"
	msgSlotConflict         = "новый интервал пересекается с существующей записью"
)

// Клиенту доступны только отмена и перенос собственной записи,
// остальные события выполняет администратор
var clientEvents = map[string]bool{
	string(domain.EventCancel):     true,
	string(domain.EventReschedule): true,
}

type Handler struct {
	useCase TransitionAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase TransitionAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/transition
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/transition - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/transition - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var clientRef *string
	if !middleware.IsAdmin(r.Context()) {
		ref, ok := middleware.GetClientRef(r.Context())
		if !ok {
			h.logger.Warn("POST /appointments/{id}/transition - Missing client ref")
			handlers.RespondUnauthorized(w, msgMissingClientRef)
			return
		}
		if !clientEvents[req.Event] {
			h.logger.Warn("POST /appointments/{id}/transition - Event %s requires admin: appointment_id=%d", req.Event, appointmentID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		clientRef = &ref
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, clientRef)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/transition - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, transitionAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/transition - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionAppointment.ErrForbidden):
			h.logger.Warn("POST /appointments/{id}/transition - Access denied: appointment_id=%d", appointmentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionAppointment.ErrInvalidEvent):
			h.logger.Warn("POST /appointments/{id}/transition - Invalid event %s: appointment_id=%d", req.Event, appointmentID)
			handlers.RespondBadRequest(w, msgInvalidEvent)

		case errors.Is(err, transitionAppointment.ErrInvalidTransition):
			h.logger.Warn("POST /appointments/{id}/transition - Invalid transition: appointment_id=%d, event=%s", appointmentID, req.Event)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, transitionAppointment.ErrStatusConflict):
			h.logger.Warn("POST /appointments/{id}/transition - Status conflict: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgStatusConflict)

		case errors.Is(err, transitionAppointment.ErrDateBlackedOut):
			h.logger.Warn("POST /appointments/{id}/transition - New date blacked out: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgDateBlackedOut)

		case errors.Is(err, transitionAppointment.ErrClosedOnDate):
			h.logger.Warn("POST /appointments/{id}/transition - Closed on new date: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgClosedOnDate)

		case errors.Is(err, transitionAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments/{id}/transition - Invalid time slot: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, transitionAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments/{id}/transition - Too late to reschedule: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, transitionAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments/{id}/transition - New slot conflict: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, transitionAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/transition - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/{id}/transition - Failed to transition: appointment_id=%d, event=%s, error=%v",
				appointmentID, req.Event, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/transition - Transition applied: appointment_id=%d, event=%s, status=%s",
		appointmentID, req.Event, result.Appointment.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
