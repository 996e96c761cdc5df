package catalog

import "errors"

var (
	// ErrClosureNotFound возвращается, когда закрытие не найдено
	ErrClosureNotFound = errors.New("catalog.repository: closure not found")

	// ErrDuplicateClosure возвращается при повторном закрытии той же пары (дата, слот)
	ErrDuplicateClosure = errors.New("catalog.repository: closure already exists")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrDuplicateService возвращается при создании услуги с существующим названием
	ErrDuplicateService = errors.New("catalog.repository: duplicate service name")

	// ErrMigrate возвращается при ошибке создания схемы
	ErrMigrate = errors.New("catalog.repository: migration failed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
