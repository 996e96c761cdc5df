package booking_stats

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/salon-booking/internal/service/bookings"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Stats(ctx context.Context, req models.PeriodRequest) (*models.StatsResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.StatsResponse)
	return resp, args.Error(1)
}

func TestHandle(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Stats", mock.Anything, models.PeriodRequest{}).Return(&models.StatsResponse{
			Total:           2,
			ByStatus:        map[string]int{"pending": 1, "completed": 1},
			Revenue:         1500,
			ExpectedRevenue: 1000,
		}, nil)

		w := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"total":2,"by_status":{"pending":1,"completed":1},"revenue":1500,"expected_revenue":1000}`, w.Body.String())
	})

	t.Run("inverted period", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Stats", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: 'to' must not be before 'from'", bookings.ErrInvalidInput))

		w := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?from=2025-06-02&to=2025-06-01", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHandler(&mockService{}, logger.Nop()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats?from=x", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
