package create_appointment

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	createAppointment "github.com/m04kA/LBS-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID int64   `json:"serviceId"`
	AddOnIDs  []int64 `json:"addOnIds,omitempty"`
	Date      string  `json:"date"`      // "2025-10-15"
	StartTime string  `json:"startTime"` // "10:00"
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64    `json:"id"`
	Code            string   `json:"code"`
	ClientRef       string   `json:"clientRef"`
	ServiceID       int64    `json:"serviceId"`
	AddOnIDs        []int64  `json:"addOnIds,omitempty"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           float64  `json:"price"`
	Status          string   `json:"status"`
	PaymentStatus   string   `json:"paymentStatus"`
	ServiceName     string   `json:"serviceName"`
	AddOnNames      []string `json:"addOnNames,omitempty"`
	ClientName      string   `json:"clientName,omitempty"`
	ClientEmail     *string  `json:"clientEmail,omitempty"`
	ClientPhone     *string  `json:"clientPhone,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientRef string) (*createAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ClientRef: clientRef,
		ServiceID: r.ServiceID,
		AddOnIDs:  r.AddOnIDs,
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		Code:            resp.Code,
		ClientRef:       resp.ClientRef,
		ServiceID:       resp.ServiceID,
		AddOnIDs:        resp.AddOnIDs,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Price:           resp.Price,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		ServiceName:     resp.ServiceName,
		AddOnNames:      resp.AddOnNames,
		ClientName:      resp.ClientName,
		ClientEmail:     resp.ClientEmail,
		ClientPhone:     resp.ClientPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
