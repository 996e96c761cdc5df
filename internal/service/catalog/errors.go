package catalog

import "errors"

var (
	// ErrConfigMissing возвращается, когда источник закрытий недоступен
	ErrConfigMissing = errors.New("catalog.service: slot configuration unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("catalog.service: invalid input data")

	// ErrClosureNotFound возвращается, когда закрытие не найдено
	ErrClosureNotFound = errors.New("catalog.service: closure not found")

	// ErrClosureExists возвращается при повторном закрытии слота
	ErrClosureExists = errors.New("catalog.service: closure already exists")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("catalog.service: service not found")

	// ErrServiceExists возвращается при дублировании названия услуги
	ErrServiceExists = errors.New("catalog.service: service already exists")

	// ErrUnknownService возвращается, если в бронировании указана неизвестная или выключенная услуга
	ErrUnknownService = errors.New("catalog.service: unknown or inactive service")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog.service: internal error")
)
