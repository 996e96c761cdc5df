package list_bookings

import (
	"net/http"
	"strings"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
)

// ParseRequest собирает фильтр из query параметров from, to, status, includeCancelled
func ParseRequest(r *http.Request) (models.ListBookingsRequest, error) {
	var req models.ListBookingsRequest

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		return req, err
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		return req, err
	}

	includeCancelled, err := handlers.QueryBool(r, "includeCancelled")
	if err != nil {
		return req, err
	}

	req.From = from
	req.To = to
	req.IncludeCancelled = includeCancelled

	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		req.Status = &status
	}

	return req, nil
}
