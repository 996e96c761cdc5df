package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings.service: booking not found")
	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("bookings.service: invalid input")
	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("bookings.service: invalid status transition")
	// ErrNotEditable возвращается при попытке изменить отмененное или выполненное бронирование
	ErrNotEditable = errors.New("bookings.service: booking can no longer be edited")
	// ErrSlotTaken возвращается, если новая пара (дата, слот) уже занята
	ErrSlotTaken = errors.New("bookings.service: slot already taken")
	ErrInternal  = errors.New("bookings.service: internal error")
)
