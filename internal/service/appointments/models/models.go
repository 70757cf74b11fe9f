package models

import (
	"errors"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// GetClientAppointmentsRequest запрос на получение записей клиента
type GetClientAppointmentsRequest struct {
	ClientRef string  `json:"clientRef"`
	Status    *string `json:"status,omitempty"`
}

// GetDayScheduleRequest запрос на расписание дня для администратора
type GetDayScheduleRequest struct {
	Date            time.Time `json:"date"`
	IncludeInactive bool      `json:"includeInactive,omitempty"` // Включить отмененные и завершенные записи
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	Code            string  `json:"code"`
	ClientRef       string  `json:"clientRef"`
	ServiceID       int64   `json:"serviceId"`
	AddOnIDs        []int64 `json:"addOnIds,omitempty"`
	Date            string  `json:"date"`      // "2025-10-15"
	StartTime       string  `json:"startTime"` // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`

	// Денормализованные данные
	ServiceName string   `json:"serviceName"`
	AddOnNames  []string `json:"addOnNames,omitempty"`
	ClientName  string   `json:"clientName,omitempty"`
	ClientEmail *string  `json:"clientEmail,omitempty"`
	ClientPhone *string  `json:"clientPhone,omitempty"`

	Notes        *string `json:"notes,omitempty"`
	ServiceNotes *string `json:"serviceNotes,omitempty"`

	CancellationFee    *float64 `json:"cancellationFee,omitempty"`
	CancellationReason *string  `json:"cancellationReason,omitempty"`
	CancelledAt        *string  `json:"cancelledAt,omitempty"` // ISO 8601 format

	ReminderSentAt *string `json:"reminderSentAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// DayScheduleResponse ответ с расписанием дня
type DayScheduleResponse struct {
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		Code:               a.Code,
		ClientRef:          a.ClientRef,
		ServiceID:          a.ServiceID,
		AddOnIDs:           a.AddOnIDs,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Price:              a.Price,
		Status:             string(a.Status),
		PaymentStatus:      string(a.PaymentStatus),
		ServiceName:        a.ServiceName,
		AddOnNames:         a.AddOnNames,
		ClientName:         a.ClientName,
		ClientEmail:        a.ClientEmail,
		ClientPhone:        a.ClientPhone,
		Notes:              a.Notes,
		ServiceNotes:       a.ServiceNotes,
		CancellationFee:    a.CancellationFee,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	// Конвертируем временные метки в строки ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}
	if a.ReminderSentAt != nil {
		reminderStr := a.ReminderSentAt.Format(time.RFC3339)
		resp.ReminderSentAt = &reminderStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку статуса в domain тип
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusNoShow, domain.StatusCancelled, domain.StatusRescheduled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}
