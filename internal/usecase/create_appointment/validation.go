package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientRef == "" {
		return fmt.Errorf("%w: clientRef is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if len(req.AddOnIDs) > domain.MaxAddOnsPerAppointment {
		return fmt.Errorf("%w: at most %d add-ons per appointment", ErrInvalidInput, domain.MaxAddOnsPerAppointment)
	}

	for _, id := range req.AddOnIDs {
		if id <= 0 {
			return fmt.Errorf("%w: addOnID must be positive", ErrInvalidInput)
		}
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateAddOns проверяет, что каждое дополнение применимо к услуге
func validateAddOns(addOns []catalogservice.AddOn, serviceID int64) error {
	for _, addOn := range addOns {
		if !addOn.CompatibleWith(serviceID) {
			return fmt.Errorf("%w: add-on %d does not apply to service %d", ErrAddOnIncompatible, addOn.ID, serviceID)
		}
	}
	return nil
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

	// Начало должно попадать на сетку granularity от времени открытия
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

// validateLeadTime проверяет, что запись на сегодня не нарушает minimumLeadMinutes
func validateLeadTime(
	date time.Time,
	startTime types.TimeString,
	now time.Time,
	minimumLeadMinutes int,
) error {
	// Если дата записи не сегодня, проверка не нужна
	if !isSameDay(date, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minimumLeadMinutes)
	if err != nil {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minimumLeadMinutes)
	}

	if startTime.IsBefore(minAllowedTime) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minimumLeadMinutes)
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
