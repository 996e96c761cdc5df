package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда пара (дата, слот) уже занята активным бронированием
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrSerialization возвращается, когда Postgres отменил транзакцию из-за конкурентной записи (40001)
	// Запрос можно повторить
	ErrSerialization = errors.New("booking.repository: serialization failure")

	// ErrMigrate возвращается при ошибке создания схемы
	ErrMigrate = errors.New("booking.repository: migration failed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
