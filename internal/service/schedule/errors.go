package schedule

import "errors"

var (
	// ErrBlackoutNotFound возвращается, когда blackout-дата не найдена
	ErrBlackoutNotFound = errors.New("blackout date not found")

	// ErrBlackoutExists возвращается при попытке повторно заблокировать дату
	ErrBlackoutExists = errors.New("blackout date already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
