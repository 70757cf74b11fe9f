package get_availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrAddOnNotFound возвращается, когда одно из дополнений не найдено
	ErrAddOnNotFound = errors.New("add-on not found")

	// ErrAddOnIncompatible возвращается, когда дополнение неприменимо к услуге
	ErrAddOnIncompatible = errors.New("add-on is not compatible with the service")

	// ErrInvalidDate возвращается при запросе доступности на прошедшую дату
	ErrInvalidDate = errors.New("invalid availability date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
