package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	catalogModels "github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/types"
)

// SlotCatalog шаблон слотов и прайс-лист
type SlotCatalog interface {
	AvailableTemplate(ctx context.Context, date types.Date) ([]types.TimeString, bool, error)
	QuoteServices(ctx context.Context, names []string) (*catalogModels.ServicesQuote, error)
}

// BookingRepository интерфейс реестра бронирований
type BookingRepository interface {
	HeldSlots(ctx context.Context, date types.Date) ([]types.TimeString, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker блокировка, сериализующая запись в одну пару (дата, слот) внутри процесса
type SlotLocker interface {
	Lock(key string) (unlock func())
}

// AvailabilityCache сброс кэша доступности после записи
type AvailabilityCache interface {
	Invalidate(ctx context.Context, date types.Date) error
}

// Metrics счетчики бронирований
type Metrics interface {
	BookingCreated()
	BookingConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) BookingCreated()  {}
func (noopMetrics) BookingConflict() {}
