package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных клиента (до обращения к реестру)
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrSlotNotOffered возвращается, когда метки нет в шаблоне дня (не настроена или закрыта)
	ErrSlotNotOffered = errors.New("create_booking: slot is not offered on this date")

	// ErrSlotTaken возвращается, когда слот уже занят; клиенту следует обновить доступность
	ErrSlotTaken = errors.New("create_booking: slot already taken")

	// ErrPersistence возвращается, когда хранилище недоступно (можно повторить)
	ErrPersistence = errors.New("create_booking: booking store unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
