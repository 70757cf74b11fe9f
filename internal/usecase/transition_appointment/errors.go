package transition_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("transition_appointment: appointment not found")

	// ErrForbidden возвращается, когда клиент пытается управлять чужой записью
	ErrForbidden = errors.New("transition_appointment: appointment belongs to another client")

	// ErrInvalidEvent возвращается при неизвестном событии перехода
	ErrInvalidEvent = errors.New("transition_appointment: unknown transition event")

	// ErrInvalidTransition возвращается, когда событие неприменимо к текущему
	// статусу записи, включая любой терминальный статус
	ErrInvalidTransition = errors.New("transition_appointment: transition is not allowed from current status")

	// ErrStatusConflict возвращается, когда статус записи изменился конкурентно
	// между чтением и условным обновлением
	ErrStatusConflict = errors.New("transition_appointment: appointment status changed concurrently")

	// ErrDateBlackedOut возвращается при переносе на полностью закрытую дату
	ErrDateBlackedOut = errors.New("transition_appointment: new date is blacked out")

	// ErrClosedOnDate возвращается при переносе на день без приема
	ErrClosedOnDate = errors.New("transition_appointment: closed on the new date")

	// ErrInvalidTimeSlot возвращается при переносе на время вне сетки слотов
	ErrInvalidTimeSlot = errors.New("transition_appointment: invalid new time slot")

	// ErrTooLateToBook возвращается при нарушении minimumLeadMinutes на переносе
	ErrTooLateToBook = errors.New("transition_appointment: too late to reschedule to this slot")

	// ErrSlotConflict возвращается, когда новый интервал пересекается с
	// существующей записью с учетом буфера
	ErrSlotConflict = errors.New("transition_appointment: new slot conflicts with an existing appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_appointment: internal error")
)
