package booking_stats

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/bookings/models"
)

type BookingService interface {
	Stats(ctx context.Context, req models.PeriodRequest) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
