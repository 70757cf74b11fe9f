package domain

import "time"

// EventType names a domain event emitted by the engine
type EventType string

const (
	EventTypeAppointmentCreated EventType = "appointment.created"
	EventTypeStatusChanged      EventType = "appointment.status_changed"
	EventTypeReminderDue        EventType = "appointment.reminder_due"
)

// Event is a domain event handed to registered observers. The engine does
// not know who consumes it; delivery failures never affect appointment
// state.
type Event struct {
	Type        EventType
	Appointment *Appointment
	FromStatus  AppointmentStatus // set for status changes
	ToStatus    AppointmentStatus // set for status changes
	OccurredAt  time.Time
}
