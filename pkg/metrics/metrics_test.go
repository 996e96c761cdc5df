package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("salon-booking")

	m.BookingCreated()
	m.BookingCreated()
	m.BookingConflict()
	m.BookingStatusChanged("cancelled")
	m.CacheResult("hit")
	m.ObserveHTTPRequest("GET", "/api/v1/availability", "200", 0.01)
	m.ObserveDBQuery("QueryContext", errors.New("boom"), 0.002)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.BookingsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BookingConflicts))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BookingStatusChanges.WithLabelValues("cancelled")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AvailabilityCache.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/availability", "200")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.BookingConflict()
		m.BookingStatusChanged("completed")
		m.CacheResult("miss")
		m.ObserveHTTPRequest("POST", "/api/v1/bookings", "201", 0.1)
		m.ObserveDBQuery("ExecContext", nil, 0.1)
	})
}
