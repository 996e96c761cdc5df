package bookings

import (
	"context"

	"github.com/m04kA/salon-booking/internal/domain"
	catalogModels "github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/types"
)

// BookingRepository интерфейс реестра бронирований
type BookingRepository interface {
	HeldSlots(ctx context.Context, date types.Date) ([]types.TimeString, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Stats(ctx context.Context, filter domain.BookingsFilter) (*domain.BookingStats, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Update(ctx context.Context, id int64, edit domain.BookingEdit) error
	Delete(ctx context.Context, id int64) error
}

// ServiceQuoter расчет цены и длительности по прайс-листу
type ServiceQuoter interface {
	QuoteServices(ctx context.Context, names []string) (*catalogModels.ServicesQuote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker блокировка пары (дата, слот) внутри процесса
type SlotLocker interface {
	Lock(key string) (unlock func())
}

// AvailabilityCache сброс кэша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, date types.Date) error
}

// Metrics счетчики изменений статуса
type Metrics interface {
	BookingStatusChanged(status string)
	BookingConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type noopMetrics struct{}

func (noopMetrics) BookingStatusChanged(string) {}
func (noopMetrics) BookingConflict()            {}
