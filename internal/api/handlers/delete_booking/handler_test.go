package delete_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/salon-booking/internal/service/bookings"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Delete", mock.Anything, int64(4)).Return(tt.err)

			r := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/bookings/4", nil), map[string]string{"id": "4"})
			w := httptest.NewRecorder()
			NewHandler(svc, logger.Nop()).Handle(w, r)

			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
