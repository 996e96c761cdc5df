package domain

import (
	"time"

	"github.com/m04kA/salon-booking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a customer booking of one slot on one date
type Booking struct {
	ID              int64
	Date            types.Date
	SlotLabel       types.TimeString
	CustomerName    string
	Phone           string
	Services        types.StringList
	Price           float64 // сумма цен услуг на момент бронирования
	DurationMinutes int     // сумма длительностей услуг
	Status          BookingStatus
	Note            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoldsSlot returns true if the booking occupies its (date, slot) pair
func (b *Booking) HoldsSlot() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if the status can no longer change
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeEdited returns true if the booking fields may still be changed by an admin
func (b *Booking) CanBeEdited() bool {
	return !b.IsTerminal()
}

// EndTime возвращает расчетное время окончания (только для отображения)
// Пустая строка, если длительность выходит за пределы суток
func (b *Booking) EndTime() types.TimeString {
	end, err := b.SlotLabel.AddMinutes(b.DurationMinutes)
	if err != nil {
		return ""
	}
	return end
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	StartDate        *types.Date    // Начало периода включительно (nil - без ограничения)
	EndDate          *types.Date    // Конец периода включительно (nil - без ограничения)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные бронирования
}

// SingleDate returns true if the filter selects exactly one date
func (f BookingsFilter) SingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

// BookingEdit набор изменяемых полей. nil означает "не менять"
type BookingEdit struct {
	Date            *types.Date
	SlotLabel       *types.TimeString
	CustomerName    *string
	Phone           *string
	Note            *string
	Services        *types.StringList
	Price           *float64
	DurationMinutes *int
}

// MovesSlot returns true if the edit changes the (date, slot) pair of b
func (e BookingEdit) MovesSlot(b *Booking) bool {
	if e.Date != nil && !e.Date.Equal(b.Date) {
		return true
	}
	return e.SlotLabel != nil && *e.SlotLabel != b.SlotLabel
}

// ApplyTo применяет изменения к копии бронирования
func (e BookingEdit) ApplyTo(b Booking) Booking {
	if e.Date != nil {
		b.Date = *e.Date
	}
	if e.SlotLabel != nil {
		b.SlotLabel = *e.SlotLabel
	}
	if e.CustomerName != nil {
		b.CustomerName = *e.CustomerName
	}
	if e.Phone != nil {
		b.Phone = *e.Phone
	}
	if e.Note != nil {
		b.Note = e.Note
	}
	if e.Services != nil {
		b.Services = *e.Services
	}
	if e.Price != nil {
		b.Price = *e.Price
	}
	if e.DurationMinutes != nil {
		b.DurationMinutes = *e.DurationMinutes
	}
	return b
}

// BookingStats агрегаты по бронированиям за период
type BookingStats struct {
	From            *types.Date
	To              *types.Date
	Total           int
	ByStatus        map[BookingStatus]int
	Revenue         float64 // выполненные бронирования
	ExpectedRevenue float64 // ожидающие и подтвержденные
}
