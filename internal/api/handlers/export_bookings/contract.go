package export_bookings

import (
	"context"
	"io"

	"github.com/m04kA/salon-booking/internal/service/bookings/models"
)

type BookingService interface {
	Export(ctx context.Context, req models.PeriodRequest, w io.Writer) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
