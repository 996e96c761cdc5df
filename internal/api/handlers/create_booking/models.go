package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	createBooking "github.com/m04kA/salon-booking/internal/usecase/create_booking"
	"github.com/m04kA/salon-booking/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidSlot = errors.New("invalid slot")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date         string   `json:"date"` // "2025-10-15"
	Slot         string   `json:"slot"` // "14:00"
	CustomerName string   `json:"customer_name"`
	Phone        string   `json:"phone"`
	Services     []string `json:"services,omitempty"`
	Note         *string  `json:"note,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64    `json:"id"`
	Date            string   `json:"date"`
	Slot            string   `json:"slot"`
	EndTime         string   `json:"end_time,omitempty"`
	CustomerName    string   `json:"customer_name"`
	Phone           string   `json:"phone"`
	Services        []string `json:"services"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"duration_minutes"`
	Status          string   `json:"status"`
	Note            *string  `json:"note,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	// Пустой слот оставляем use case: он сообщит, что поле обязательно
	var slot types.TimeString
	if raw := strings.TrimSpace(r.Slot); raw != "" {
		slot, err = types.NewTimeStringFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidSlot, err)
		}
	}

	return &createBooking.Request{
		Date:         date,
		Slot:         slot,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Services:     r.Services,
		Note:         r.Note,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	services := resp.Services
	if services == nil {
		services = []string{}
	}

	return &BookingResponse{
		ID:              resp.ID,
		Date:            resp.Date.String(),
		Slot:            resp.Slot.String(),
		EndTime:         resp.EndTime.String(),
		CustomerName:    resp.CustomerName,
		Phone:           resp.Phone,
		Services:        services,
		Price:           resp.Price,
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		Note:            resp.Note,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
