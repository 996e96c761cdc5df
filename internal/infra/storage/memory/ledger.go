package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/storage/booking"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Ledger реестр бронирований в памяти процесса
// Проверка занятости и вставка выполняются под одним мьютексом, поэтому
// Create атомарен сам по себе. Ошибки совпадают с SQL-реализацией.
type Ledger struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]domain.Booking
	now      func() time.Time
}

// NewLedger создает пустой реестр
func NewLedger() *Ledger {
	return &Ledger{
		bookings: make(map[int64]domain.Booking),
		now:      time.Now,
	}
}

// HeldSlots возвращает метки, занятые неотмененными бронированиями на дату
func (l *Ledger) HeldSlots(_ context.Context, date types.Date) ([]types.TimeString, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	held := make([]types.TimeString, 0)
	for _, b := range l.bookings {
		if b.Date.Equal(date) && b.HoldsSlot() {
			held = append(held, b.SlotLabel)
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })

	return held, nil
}

// Create добавляет бронирование, если пара (дата, слот) свободна
func (l *Ledger) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b.HoldsSlot() && l.heldLocked(b.Date, b.SlotLabel, 0) {
		return nil, fmt.Errorf("%w: Create - %s %s", booking.ErrSlotTaken, b.Date, b.SlotLabel)
	}

	l.nextID++
	now := l.now().UTC()

	stored := *b
	stored.ID = l.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	l.bookings[stored.ID] = stored

	b.ID = stored.ID
	b.CreatedAt = now
	b.UpdatedAt = now

	return b, nil
}

// GetByID получает бронирование по ID
func (l *Ledger) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

// List получает бронирования по фильтру в том же порядке, что и SQL-реализация
func (l *Ledger) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range l.bookings {
		if !matches(b, filter) {
			continue
		}
		b := b
		result = append(result, &b)
	}

	single := filter.SingleDate()
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if single {
			return a.SlotLabel < b.SlotLabel
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.SlotLabel > b.SlotLabel
	})

	return result, nil
}

// Stats считает количество и сумму бронирований по статусам за период
func (l *Ledger) Stats(_ context.Context, filter domain.BookingsFilter) (*domain.BookingStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	filter.Status = nil
	filter.IncludeCancelled = true

	stats := &domain.BookingStats{
		From:     filter.StartDate,
		To:       filter.EndDate,
		ByStatus: make(map[domain.BookingStatus]int),
	}

	for _, b := range l.bookings {
		if !matches(b, filter) {
			continue
		}
		stats.Total++
		stats.ByStatus[b.Status]++

		switch b.Status {
		case domain.StatusCompleted:
			stats.Revenue += b.Price
		case domain.StatusPending, domain.StatusConfirmed:
			stats.ExpectedRevenue += b.Price
		}
	}

	return stats, nil
}

// UpdateStatus обновляет статус бронирования
func (l *Ledger) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}

	b.Status = status
	if b.HoldsSlot() && l.heldLocked(b.Date, b.SlotLabel, id) {
		return fmt.Errorf("%w: UpdateStatus - %s %s", booking.ErrSlotTaken, b.Date, b.SlotLabel)
	}

	b.UpdatedAt = l.now().UTC()
	l.bookings[id] = b

	return nil
}

// Update применяет изменения администратора к бронированию
func (l *Ledger) Update(_ context.Context, id int64, edit domain.BookingEdit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}

	updated := edit.ApplyTo(current)
	if edit.MovesSlot(&current) && updated.HoldsSlot() && l.heldLocked(updated.Date, updated.SlotLabel, id) {
		return fmt.Errorf("%w: Update - %s %s", booking.ErrSlotTaken, updated.Date, updated.SlotLabel)
	}

	updated.UpdatedAt = l.now().UTC()
	l.bookings[id] = updated

	return nil
}

// Delete удаляет бронирование
func (l *Ledger) Delete(_ context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.bookings[id]; !ok {
		return booking.ErrBookingNotFound
	}
	delete(l.bookings, id)

	return nil
}

// heldLocked проверяет занятость пары, не считая бронирование except. Вызывается под l.mu
func (l *Ledger) heldLocked(date types.Date, label types.TimeString, except int64) bool {
	for id, b := range l.bookings {
		if id != except && b.HoldsSlot() && b.Date.Equal(date) && b.SlotLabel == label {
			return true
		}
	}
	return false
}

func matches(b domain.Booking, filter domain.BookingsFilter) bool {
	if filter.StartDate != nil && b.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && b.Date.After(*filter.EndDate) {
		return false
	}
	if filter.Status != nil {
		return b.Status == *filter.Status
	}
	return filter.IncludeCancelled || b.Status != domain.StatusCancelled
}
