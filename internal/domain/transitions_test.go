package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name  string
		from  AppointmentStatus
		event TransitionEvent
		want  AppointmentStatus
		ok    bool
	}{
		{name: "pending approve", from: StatusPending, event: EventApprove, want: StatusConfirmed, ok: true},
		{name: "pending reject", from: StatusPending, event: EventReject, want: StatusCancelled, ok: true},
		{name: "pending cancel", from: StatusPending, event: EventCancel, want: StatusCancelled, ok: true},
		{name: "confirmed start", from: StatusConfirmed, event: EventStart, want: StatusInProgress, ok: true},
		{name: "confirmed cancel", from: StatusConfirmed, event: EventCancel, want: StatusCancelled, ok: true},
		{name: "confirmed no-show", from: StatusConfirmed, event: EventNoShow, want: StatusNoShow, ok: true},
		{name: "confirmed reschedule", from: StatusConfirmed, event: EventReschedule, want: StatusRescheduled, ok: true},
		{name: "in-progress finish", from: StatusInProgress, event: EventFinish, want: StatusCompleted, ok: true},

		{name: "pending start not allowed", from: StatusPending, event: EventStart, ok: false},
		{name: "pending reschedule not allowed", from: StatusPending, event: EventReschedule, ok: false},
		{name: "confirmed approve not allowed", from: StatusConfirmed, event: EventApprove, ok: false},
		{name: "in-progress cancel not allowed", from: StatusInProgress, event: EventCancel, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextStatus(tt.from, tt.event)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNextStatus_TerminalStatusesAreImmutable(t *testing.T) {
	events := []TransitionEvent{
		EventApprove, EventReject, EventStart, EventFinish,
		EventCancel, EventNoShow, EventReschedule,
	}

	for _, status := range TerminalStatuses {
		for _, event := range events {
			_, ok := NextStatus(status, event)
			assert.False(t, ok, "status %s must not accept %s", status, event)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRescheduled.IsTerminal())
}

func TestParseTransitionEvent(t *testing.T) {
	event, ok := ParseTransitionEvent("cancel")
	assert.True(t, ok)
	assert.Equal(t, EventCancel, event)

	_, ok = ParseTransitionEvent("destroy")
	assert.False(t, ok)

	_, ok = ParseTransitionEvent("")
	assert.False(t, ok)
}
