package domain

import (
	"time"

	"github.com/m04kA/salon-booking/pkg/types"
)

// Closure административное закрытие слота на дату
// Пустой Label закрывает весь день (выходной)
type Closure struct {
	ID        int64
	Date      types.Date
	Label     types.TimeString
	Reason    *string
	CreatedAt time.Time
}

// IsFullDay returns true if the closure covers the whole day
func (c *Closure) IsFullDay() bool {
	return c.Label.IsZero()
}

// ServiceItem услуга салона из прайс-листа
type ServiceItem struct {
	ID              int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ClosuresFilter фильтр выборки закрытий
type ClosuresFilter struct {
	StartDate *types.Date
	EndDate   *types.Date
}
