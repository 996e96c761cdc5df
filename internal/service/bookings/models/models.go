package models

import (
	"strconv"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// ListBookingsRequest фильтр списка бронирований для администратора
type ListBookingsRequest struct {
	From             *types.Date
	To               *types.Date
	Status           *string
	IncludeCancelled bool
}

// PeriodRequest период для статистики и выгрузки
type PeriodRequest struct {
	From *types.Date
	To   *types.Date
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// EditBookingRequest запрос на изменение полей бронирования
// nil поле не меняется
type EditBookingRequest struct {
	Date         *types.Date `json:"date,omitempty"`
	Slot         *string     `json:"slot,omitempty"`
	CustomerName *string     `json:"customer_name,omitempty"`
	Phone        *string     `json:"phone,omitempty"`
	Note         *string     `json:"note,omitempty"`
	Services     *[]string   `json:"services,omitempty"`
}

// IsEmpty returns true if the request changes nothing
func (r *EditBookingRequest) IsEmpty() bool {
	return r.Date == nil && r.Slot == nil && r.CustomerName == nil &&
		r.Phone == nil && r.Note == nil && r.Services == nil
}

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	ID              int64            `json:"id"`
	Date            types.Date       `json:"date"`
	Slot            types.TimeString `json:"slot"`
	EndTime         types.TimeString `json:"end_time,omitempty"`
	CustomerName    string           `json:"customer_name"`
	Phone           string           `json:"phone"`
	Services        []string         `json:"services"`
	Price           float64          `json:"price"`
	DurationMinutes int              `json:"duration_minutes"`
	Status          string           `json:"status"`
	Note            *string          `json:"note,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// StatsResponse агрегаты по бронированиям за период
type StatsResponse struct {
	From            *types.Date    `json:"from,omitempty"`
	To              *types.Date    `json:"to,omitempty"`
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	Revenue         float64        `json:"revenue"`
	ExpectedRevenue float64        `json:"expected_revenue"`
}

// ExportHeader колонки CSV выгрузки
var ExportHeader = []string{"date", "slot_label", "customer_name", "phone", "services", "price", "status", "note"}

// FromDomainBooking конвертирует доменную модель в ответ
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	services := []string(b.Services)
	if services == nil {
		services = []string{}
	}

	return &BookingResponse{
		ID:              b.ID,
		Date:            b.Date,
		Slot:            b.SlotLabel,
		EndTime:         b.EndTime(),
		CustomerName:    b.CustomerName,
		Phone:           b.Phone,
		Services:        services,
		Price:           b.Price,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Note:            b.Note,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookings конвертирует список
func FromDomainBookings(items []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(items))
	for _, b := range items {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

// FromDomainStats конвертирует статистику, заполняя нулями отсутствующие статусы
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	byStatus := make(map[string]int, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		byStatus[string(status)] = s.ByStatus[status]
	}

	return &StatsResponse{
		From:            s.From,
		To:              s.To,
		Total:           s.Total,
		ByStatus:        byStatus,
		Revenue:         s.Revenue,
		ExpectedRevenue: s.ExpectedRevenue,
	}
}

// ExportRecord строка CSV выгрузки в порядке ExportHeader
func ExportRecord(b *domain.Booking) []string {
	note := ""
	if b.Note != nil {
		note = *b.Note
	}
	return []string{
		b.Date.String(),
		b.SlotLabel.String(),
		b.CustomerName,
		b.Phone,
		b.Services.Join("; "),
		strconv.FormatFloat(b.Price, 'f', 2, 64),
		string(b.Status),
		note,
	}
}
