package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// normalizeRequest обрезает пробелы в текстовых полях
func normalizeRequest(req *Request) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if note == "" {
			req.Note = nil
		} else {
			req.Note = &note
		}
	}

	services := make([]string, 0, len(req.Services))
	for _, s := range req.Services {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	req.Services = services
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Slot.IsZero() {
		return fmt.Errorf("%w: slot is required", ErrInvalidInput)
	}
	if err := req.Slot.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slot format: %v", ErrInvalidInput, err)
	}

	if err := domain.ValidateCustomerName(req.CustomerName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := domain.ValidatePhone(req.Phone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := domain.ValidateNote(req.Note); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(req.Services) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта бронирования
func validateDate(date, today types.Date, horizonDays int) error {
	if date.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date)
	}

	if horizonDays > 0 && date.After(today.AddDays(horizonDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrInvalidInput, horizonDays)
	}

	return nil
}
