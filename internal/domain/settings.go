package domain

import "time"

// ScheduleSettings holds the booking policy of the provider.
// Stored as a single row; auto-confirm is read exactly once per request.
type ScheduleSettings struct {
	CancellationWindowHours int     // late-cancellation fee applies inside this window
	CancellationFeeAmount   float64 // fee charged for a late cancellation
	BufferMinutes           int     // gap enforced after each appointment
	SlotGranularityMinutes  int     // step between candidate start times
	MinimumLeadMinutes      int     // same-day slots must start at least this far in the future
	ReminderHours           int     // reminder fires this many hours before the appointment
	AutoConfirmBookings     bool    // new appointments start confirmed instead of pending

	UpdatedAt time.Time
}

// HoursUntil returns the number of hours from now until the appointment
// start, fractional
func HoursUntil(appointment *Appointment, now time.Time) float64 {
	return appointment.StartDateTime().Sub(now).Hours()
}

// LateCancellation reports whether cancelling at `now` falls inside the
// fee window
func (s *ScheduleSettings) LateCancellation(appointment *Appointment, now time.Time) bool {
	return HoursUntil(appointment, now) < float64(s.CancellationWindowHours)
}
