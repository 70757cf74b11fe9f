package transition_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.TransitionEvent, error) {
	if req.AppointmentID <= 0 {
		return "", fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	event, ok := domain.ParseTransitionEvent(req.Event)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidEvent, req.Event)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return "", fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	if req.ServiceNotes != nil && len(*req.ServiceNotes) > domain.MaxNotesLength {
		return "", fmt.Errorf("%w: serviceNotes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// Перенос требует новые дату и время
	if event == domain.EventReschedule {
		if req.NewDate == nil || req.NewDate.IsZero() {
			return "", fmt.Errorf("%w: newDate is required for reschedule", ErrInvalidInput)
		}
		if req.NewStartTime == nil || req.NewStartTime.IsZero() {
			return "", fmt.Errorf("%w: newStartTime is required for reschedule", ErrInvalidInput)
		}
		if err := req.NewStartTime.Validate(); err != nil {
			return "", fmt.Errorf("%w: invalid newStartTime format: %v", ErrInvalidInput, err)
		}
	}

	return event, nil
}

// validateTimeSlot проверяет, что время начала лежит на сетке слотов и
// услуга целиком помещается в рабочие часы
func validateTimeSlot(
	startTime types.TimeString,
	totalDurationMinutes int,
	daySchedule domain.DaySchedule,
	granularityMinutes int,
) error {
	if startTime.IsBefore(daySchedule.OpenTime) {
		return fmt.Errorf("%w: starts before opening time", ErrInvalidTimeSlot)
	}

	end, err := startTime.AddMinutes(totalDurationMinutes)
	if err != nil {
		return fmt.Errorf("%w: appointment runs past midnight", ErrInvalidTimeSlot)
	}
	if end.IsAfter(daySchedule.CloseTime) {
		return fmt.Errorf("%w: does not fit before closing time", ErrInvalidTimeSlot)
	}

	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	openMinutes, err := daySchedule.OpenTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if granularityMinutes > 0 && (startMinutes-openMinutes)%granularityMinutes != 0 {
		return fmt.Errorf("%w: start time is not aligned to the %d-minute grid", ErrInvalidTimeSlot, granularityMinutes)
	}

	return nil
}

// validateLeadTime проверяет, что перенос на сегодня не нарушает minimumLeadMinutes
func validateLeadTime(
	date time.Time,
	startTime types.TimeString,
	now time.Time,
	minimumLeadMinutes int,
) error {
	if !isSameDay(date, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minimumLeadMinutes)
	if err != nil {
		return fmt.Errorf("%w: must reschedule at least %d minutes in advance", ErrTooLateToBook, minimumLeadMinutes)
	}

	if startTime.IsBefore(minAllowedTime) {
		return fmt.Errorf("%w: must reschedule at least %d minutes in advance", ErrTooLateToBook, minimumLeadMinutes)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
