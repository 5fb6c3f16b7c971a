package staffexceptions

import "errors"

var (
	// ErrExceptionNotFound возвращается, когда исключение доступности не найдено
	ErrExceptionNotFound = errors.New("staffexceptions.repository: exception not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staffexceptions.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staffexceptions.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staffexceptions.repository: failed to scan row")
)
