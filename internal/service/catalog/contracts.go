package catalog

import (
	"context"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// ClosureRepository интерфейс хранилища закрытий
type ClosureRepository interface {
	CreateClosure(ctx context.Context, closure *domain.Closure) (*domain.Closure, error)
	ListClosures(ctx context.Context, filter domain.ClosuresFilter) ([]*domain.Closure, error)
	ClosuresForDate(ctx context.Context, date types.Date) ([]*domain.Closure, error)
	DeleteClosure(ctx context.Context, id int64) (types.Date, error)
}

// ServiceRepository интерфейс хранилища прайс-листа
type ServiceRepository interface {
	CreateService(ctx context.Context, item *domain.ServiceItem) (*domain.ServiceItem, error)
	GetService(ctx context.Context, id int64) (*domain.ServiceItem, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.ServiceItem, error)
	UpdateService(ctx context.Context, item *domain.ServiceItem) error
	DeleteService(ctx context.Context, id int64) error
}

// AvailabilityCache сброс кэша доступности при изменении закрытий
type AvailabilityCache interface {
	Invalidate(ctx context.Context, date types.Date) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
