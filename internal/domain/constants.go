package domain

// Default schedule policy values, used when the settings row is missing
const (
	DefaultCancellationWindowHours = 48
	DefaultCancellationFeeAmount   = 35.0
	DefaultBufferMinutes           = 15
	DefaultSlotGranularityMinutes  = 30
	DefaultMinimumLeadMinutes      = 60
	DefaultReminderHours           = 24
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240
	MinBufferMinutes          = 0
	MaxBufferMinutes          = 120
	MinCancellationWindow     = 0
	MaxCancellationWindow     = 24 * 14 // two weeks
	MinLeadMinutes            = 0
	MaxLeadMinutes            = 10080 // one week
	MaxNotesLength            = 500
	MaxReasonLength           = 500
	MaxAddOnsPerAppointment   = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// LateCancellationReason is recorded when the fee policy applies
const LateCancellationReason = "late cancellation"

// SlotBlockingStatuses lists the statuses that occupy their time interval.
// Used when loading the day's ledger for conflict checks.
var SlotBlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses lists the statuses no transition leaves
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusNoShow,
	StatusCancelled,
	StatusRescheduled,
}
