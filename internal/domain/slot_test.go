package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

func blockingAppointment(start types.TimeString, duration int) *Appointment {
	return &Appointment{
		StartTime:       start,
		DurationMinutes: duration,
		Status:          StatusConfirmed,
	}
}

func TestOverlapsBuffered(t *testing.T) {
	// Existing appointment 10:00-11:00 with 15 minute buffer occupies
	// [10:00, 11:15)
	appt := blockingAppointment("10:00", 60)

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		want     bool
	}{
		{name: "same interval", start: "10:00", duration: 60, want: true},
		{name: "starts inside", start: "10:30", duration: 60, want: true},
		{name: "ends inside buffer", start: "09:30", duration: 60, want: true},
		{name: "starts within buffer", start: "11:00", duration: 30, want: true},
		{name: "fully covers", start: "09:00", duration: 180, want: true},

		{name: "candidate ends at occupied start", start: "09:00", duration: 60, want: false},
		{name: "candidate starts at buffered end", start: "11:15", duration: 60, want: false},
		{name: "well before", start: "08:00", duration: 30, want: false},
		{name: "well after", start: "13:00", duration: 30, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapsBuffered(tt.start, tt.duration, appt, 15)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlapsBuffered_ZeroBuffer(t *testing.T) {
	appt := blockingAppointment("10:00", 60)

	// Without a buffer, back-to-back appointments touch but do not overlap
	assert.False(t, OverlapsBuffered("11:00", 60, appt, 0))
	assert.True(t, OverlapsBuffered("10:59", 60, appt, 0))
}

func TestOverlapsBuffered_BufferPastMidnight(t *testing.T) {
	// Buffered end past 23:59 clamps to end of day, the interval still
	// blocks everything after its start
	appt := blockingAppointment("23:00", 50)

	assert.True(t, OverlapsBuffered("23:30", 20, appt, 30))
	assert.False(t, OverlapsBuffered("22:00", 60, appt, 30))
}

func TestIsSlotFree(t *testing.T) {
	appointments := []*Appointment{
		blockingAppointment("09:00", 60),
		blockingAppointment("14:00", 30),
	}

	assert.True(t, IsSlotFree("11:00", 60, appointments, 15))
	assert.False(t, IsSlotFree("09:30", 30, appointments, 15))
	assert.False(t, IsSlotFree("14:00", 30, appointments, 15))
	assert.True(t, IsSlotFree("14:45", 30, appointments, 15))
}

func TestIsSlotFree_IgnoresNonBlockingStatuses(t *testing.T) {
	cancelled := blockingAppointment("10:00", 60)
	cancelled.Status = StatusCancelled

	completed := blockingAppointment("10:00", 60)
	completed.Status = StatusCompleted

	appointments := []*Appointment{cancelled, completed}

	assert.True(t, IsSlotFree("10:00", 60, appointments, 15))
}

func TestIsSlotFree_EmptyDay(t *testing.T) {
	assert.True(t, IsSlotFree("10:00", 60, nil, 15))
}
