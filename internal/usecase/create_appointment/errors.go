package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrAddOnNotFound возвращается, когда одно из дополнений не найдено
	ErrAddOnNotFound = errors.New("create_appointment: add-on not found")

	// ErrAddOnIncompatible возвращается, когда дополнение неприменимо к услуге
	ErrAddOnIncompatible = errors.New("create_appointment: add-on is not compatible with the service")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrInvalidDate возвращается при попытке записи на прошедшую дату
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateBlackedOut возвращается, когда дата полностью закрыта для записей
	ErrDateBlackedOut = errors.New("create_appointment: date is blacked out")

	// ErrClosedOnDate возвращается, когда в этот день недели приема нет
	ErrClosedOnDate = errors.New("create_appointment: closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время начала не выровнено по сетке
	// слотов или услуга не помещается до закрытия
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTooLateToBook возвращается при нарушении minimumLeadMinutes
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующей
	// записью с учетом буфера
	ErrSlotConflict = errors.New("create_appointment: slot conflicts with an existing appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
