package models

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Request модели

// CreateClosureRequest запрос на закрытие слота
// Пустой Slot закрывает весь день
type CreateClosureRequest struct {
	Date   types.Date `json:"date"`
	Slot   string     `json:"slot,omitempty"`
	Reason *string    `json:"reason,omitempty"`
}

// ListClosuresRequest период выборки закрытий (границы включительно, опционально)
type ListClosuresRequest struct {
	From *types.Date
	To   *types.Date
}

// ServiceRequest запрос на создание или изменение услуги
type ServiceRequest struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          *bool   `json:"active,omitempty"` // по умолчанию true
}

// ToDomainService преобразует запрос в доменную модель
func (r *ServiceRequest) ToDomainService() *domain.ServiceItem {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.ServiceItem{
		Name:            r.Name,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		Active:          active,
	}
}

// Response модели

// ClosureResponse закрытие слота
type ClosureResponse struct {
	ID        int64      `json:"id"`
	Date      types.Date `json:"date"`
	Slot      string     `json:"slot"`
	FullDay   bool       `json:"full_day"`
	Reason    *string    `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// FromDomainClosure преобразует доменную модель в ответ
func FromDomainClosure(c *domain.Closure) *ClosureResponse {
	return &ClosureResponse{
		ID:        c.ID,
		Date:      c.Date,
		Slot:      c.Label.String(),
		FullDay:   c.IsFullDay(),
		Reason:    c.Reason,
		CreatedAt: c.CreatedAt,
	}
}

// ServiceResponse услуга прайс-листа
type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FromDomainService преобразует доменную модель в ответ
func FromDomainService(s *domain.ServiceItem) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ServicesQuote итог по выбранным услугам
type ServicesQuote struct {
	Names           []string
	Price           float64
	DurationMinutes int
}
