package notifygateway

// NotificationType тип уведомления
type NotificationType string

const (
	TypeAppointmentCreated NotificationType = "appointment.created"
	TypeStatusChanged      NotificationType = "appointment.status_changed"
	TypeReminder           NotificationType = "appointment.reminder"
)

// Notification запрос на отправку уведомления клиенту
type Notification struct {
	Type            NotificationType `json:"type"`
	ClientRef       string           `json:"client_ref"`
	Email           *string          `json:"email,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	AppointmentCode string           `json:"appointment_code"`
	Message         string           `json:"message"`
}
