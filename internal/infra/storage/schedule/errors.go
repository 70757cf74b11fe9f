package schedule

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда строка настроек отсутствует
	ErrSettingsNotFound = errors.New("schedule.repository: settings not found")

	// ErrBlackoutNotFound возвращается, когда blackout-дата не найдена
	ErrBlackoutNotFound = errors.New("schedule.repository: blackout date not found")

	// ErrBlackoutExists возвращается при попытке повторно заблокировать дату
	ErrBlackoutExists = errors.New("schedule.repository: blackout date already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
