package transition_appointment

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/service/appointments/models"
	transitionAppointment "github.com/m04kA/LBS-SchedulingService/internal/usecase/transition_appointment"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Event        string  `json:"event"` // approve, reject, start, finish, cancel, no_show, reschedule
	Reason       *string `json:"reason,omitempty"`
	ServiceNotes *string `json:"serviceNotes,omitempty"`
	NewDate      *string `json:"newDate,omitempty"`      // "2025-10-15", только для reschedule
	NewStartTime *string `json:"newStartTime,omitempty"` // "10:00", только для reschedule
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`

	// NewAppointment заполняется только для reschedule
	NewAppointment *models.AppointmentResponse `json:"newAppointment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionRequest) ToUseCaseRequest(appointmentID int64, clientRef *string) (*transitionAppointment.Request, error) {
	req := &transitionAppointment.Request{
		AppointmentID: appointmentID,
		Event:         r.Event,
		ClientRef:     clientRef,
		Reason:        r.Reason,
		ServiceNotes:  r.ServiceNotes,
	}

	if r.NewDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.NewDate)
		if err != nil {
			return nil, err
		}
		req.NewDate = &date
	}

	if r.NewStartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.NewStartTime)
		if err != nil {
			return nil, err
		}
		req.NewStartTime = &startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionAppointment.Response) *TransitionResponse {
	return &TransitionResponse{
		Appointment:    models.FromDomainAppointment(resp.Appointment),
		NewAppointment: models.FromDomainAppointment(resp.NewAppointment),
	}
}
