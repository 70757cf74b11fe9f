package domain

import "github.com/m04kA/LBS-SchedulingService/pkg/types"

// Slot represents a candidate appointment start time within an open window
type Slot struct {
	StartTime types.TimeString
	Available bool
}

// OverlapsBuffered reports whether a candidate interval
// [start, start+durationMinutes) intersects the appointment's buffered
// interval [appt.start, appt.end+bufferMinutes).
//
// Intervals are half-open: touching endpoints do not count as overlap.
// A candidate ending exactly where the buffered interval begins, or starting
// exactly where it ends, is allowed.
func OverlapsBuffered(start types.TimeString, durationMinutes int, appt *Appointment, bufferMinutes int) bool {
	candidateEnd, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	occupiedEnd, err := appt.StartTime.AddMinutes(appt.DurationMinutes + bufferMinutes)
	if err != nil {
		// Buffered end runs past midnight: clamp to end of day, the
		// interval still blocks everything after its start
		occupiedEnd = types.TimeString("23:59")
	}

	return appt.StartTime.IsBefore(candidateEnd) && occupiedEnd.IsAfter(start)
}

// IsSlotFree reports whether a candidate interval is free of conflicts
// against every slot-blocking appointment in the list
func IsSlotFree(start types.TimeString, durationMinutes int, appointments []*Appointment, bufferMinutes int) bool {
	for _, appt := range appointments {
		if !appt.BlocksSlot() {
			continue
		}
		if OverlapsBuffered(start, durationMinutes, appt, bufferMinutes) {
			return false
		}
	}
	return true
}
