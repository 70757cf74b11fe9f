package get_availability

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// generateCandidateStarts генерирует времена начала слотов на день.
// Кандидаты идут от открытия с шагом granularity; кандидат остается в списке,
// только если вся длительность услуги помещается до закрытия.
// Для сегодняшней даты дополнительно отбрасываются кандидаты ближе
// minimumLeadMinutes от текущего времени.
func generateCandidateStarts(
	workingHours domain.DaySchedule,
	granularityMinutes int,
	totalDurationMinutes int,
	requestDate time.Time,
	now time.Time,
	minimumLeadMinutes int,
) ([]types.TimeString, error) {
	if !workingHours.IsOpen {
		return []types.TimeString{}, nil
	}

	openTime := workingHours.OpenTime
	closeTime := workingHours.CloseTime

	// Шаг 1: генерируем всех кандидатов, чья полная длительность помещается до закрытия
	allStarts := make([]types.TimeString, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		end, err := current.AddMinutes(totalDurationMinutes)
		if err != nil {
			break
		}
		if end.IsAfter(closeTime) {
			break
		}

		allStarts = append(allStarts, current)
		current, err = current.AddMinutes(granularityMinutes)
		if err != nil {
			break
		}
	}

	// Шаг 2: если дата НЕ сегодня - возвращаем всех кандидатов
	if !isSameDay(requestDate, now) {
		return allStarts, nil
	}

	// Шаг 3: для сегодняшней даты фильтруем по минимальному времени до записи
	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minimumLeadMinutes)
	if err != nil {
		// Порог за полночь: сегодня уже ничего нельзя забронировать
		return []types.TimeString{}, nil
	}

	filtered := make([]types.TimeString, 0, len(allStarts))
	for _, start := range allStarts {
		if !start.IsBefore(minAllowedTime) {
			filtered = append(filtered, start)
		}
	}

	return filtered, nil
}

// markAvailability помечает каждого кандидата флагом доступности по занятым
// интервалам дня. Кандидат проверяется без буфера, существующие записи - с
// буфером после конца.
func markAvailability(
	starts []types.TimeString,
	totalDurationMinutes int,
	appointments []*domain.Appointment,
	bufferMinutes int,
) []domain.Slot {
	slots := make([]domain.Slot, len(starts))

	for i, start := range starts {
		slots[i] = domain.Slot{
			StartTime: start,
			Available: domain.IsSlotFree(start, totalDurationMinutes, appointments, bufferMinutes),
		}
	}

	return slots
}
