package edit_booking

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/bookings/models"
)

type BookingService interface {
	Edit(ctx context.Context, id int64, req *models.EditBookingRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
