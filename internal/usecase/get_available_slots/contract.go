package get_available_slots

import (
	"context"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// SlotCatalog шаблон слотов дня за вычетом закрытий
type SlotCatalog interface {
	AvailableTemplate(ctx context.Context, date types.Date) ([]types.TimeString, bool, error)
}

// BookingRepository интерфейс реестра бронирований
type BookingRepository interface {
	// HeldSlots метки, занятые неотмененными бронированиями на дату
	HeldSlots(ctx context.Context, date types.Date) ([]types.TimeString, error)
}

// AvailabilityCache кэш рассчитанной доступности
// Generation растет при каждом сбросе даты; Set с устаревшим поколением ничего не сохраняет
type AvailabilityCache interface {
	Get(ctx context.Context, date types.Date) (*domain.DayAvailability, bool, error)
	Generation(ctx context.Context, date types.Date) (int64, error)
	Set(ctx context.Context, day *domain.DayAvailability, generation int64) error
}

// Metrics счетчики попаданий в кэш
type Metrics interface {
	CacheResult(result string)
}

type noopMetrics struct{}

func (noopMetrics) CacheResult(string) {}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
