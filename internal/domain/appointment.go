package domain

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in-progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusNoShow      AppointmentStatus = "no-show"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// PaymentStatus represents the payment state of an appointment.
// The engine only carries this as data, payment capture lives elsewhere.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRefunded PaymentStatus = "refunded"
)

// Appointment represents a booked appointment with the provider.
// Service, add-on and client data are denormalized onto the record so the
// booking history survives later catalog and profile edits.
type Appointment struct {
	ID   int64
	Code string // client-facing UUID

	ServiceID    int64
	ServiceName  string
	ServicePrice float64
	AddOnIDs     []int64
	AddOnNames   []string

	ClientRef   string // opaque identity handle from the identity provider
	ClientName  string
	ClientEmail *string
	ClientPhone *string

	Date            time.Time // calendar date, time part zeroed
	StartTime       types.TimeString
	DurationMinutes int // service duration + sum of add-on durations
	Price           float64

	Status        AppointmentStatus
	PaymentStatus PaymentStatus

	Notes        *string
	ServiceNotes *string // admin notes about the performed service

	CancellationFee    *float64
	CancellationReason *string
	CancelledAt        *time.Time

	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlocksSlot returns true if the appointment occupies its time interval
// for conflict checks
func (a *Appointment) BlocksSlot() bool {
	return a.Status == StatusPending ||
		a.Status == StatusConfirmed ||
		a.Status == StatusInProgress
}

// IsTerminal returns true if no further transition is legal
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// StartDateTime combines the calendar date with the start time
func (a *Appointment) StartDateTime() time.Time {
	minutes, err := a.StartTime.Minutes()
	if err != nil {
		return a.Date
	}
	return time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, a.Date.Location()).
		Add(time.Duration(minutes) * time.Minute)
}

// EndTime returns the time the appointment finishes, without the buffer
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// DaySchedule represents the open window for a single date
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WorkingHours holds the weekly schedule of the provider
type WorkingHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDate returns the schedule for the weekday of the given date
func (w WorkingHours) ForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// BlackoutType classifies why a date is blocked
type BlackoutType string

const (
	BlackoutUnavailable BlackoutType = "unavailable"
	BlackoutVacation    BlackoutType = "vacation"
	BlackoutHoliday     BlackoutType = "holiday"
)

// IsValid returns true for a known blackout type
func (t BlackoutType) IsValid() bool {
	return t == BlackoutUnavailable || t == BlackoutVacation || t == BlackoutHoliday
}

// BlackoutDate marks a calendar date as fully closed for new bookings,
// overriding the weekday default
type BlackoutDate struct {
	Date      time.Time
	Reason    string
	Type      BlackoutType
	CreatedAt time.Time
}
