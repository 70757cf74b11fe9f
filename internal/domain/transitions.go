package domain

// TransitionEvent represents a lifecycle event applied to an appointment
type TransitionEvent string

const (
	EventApprove    TransitionEvent = "approve"
	EventReject     TransitionEvent = "reject"
	EventStart      TransitionEvent = "start"
	EventFinish     TransitionEvent = "finish"
	EventCancel     TransitionEvent = "cancel"
	EventNoShow     TransitionEvent = "no_show"
	EventReschedule TransitionEvent = "reschedule"
)

// ParseTransitionEvent validates an event string coming from the API
func ParseTransitionEvent(s string) (TransitionEvent, bool) {
	e := TransitionEvent(s)
	switch e {
	case EventApprove, EventReject, EventStart, EventFinish, EventCancel, EventNoShow, EventReschedule:
		return e, true
	default:
		return "", false
	}
}

// transitions is the single source of truth for the appointment state
// machine. Every status mutation in the system must resolve through it;
// nothing writes statuses directly.
var transitions = map[AppointmentStatus]map[TransitionEvent]AppointmentStatus{
	StatusPending: {
		EventApprove: StatusConfirmed,
		EventReject:  StatusCancelled,
		EventCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		EventStart:      StatusInProgress,
		EventCancel:     StatusCancelled,
		EventNoShow:     StatusNoShow,
		EventReschedule: StatusRescheduled,
	},
	StatusInProgress: {
		EventFinish: StatusCompleted,
	},
}

// NextStatus resolves the target status for an event applied in the given
// status. The second result is false when the transition is not defined,
// which includes every event applied in a terminal status.
func NextStatus(from AppointmentStatus, event TransitionEvent) (AppointmentStatus, bool) {
	byEvent, ok := transitions[from]
	if !ok {
		return "", false
	}
	to, ok := byEvent[event]
	return to, ok
}

// IsTerminal returns true if no transition leaves the status
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusNoShow, StatusCancelled, StatusRescheduled:
		return true
	default:
		return false
	}
}
