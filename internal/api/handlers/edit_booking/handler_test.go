package edit_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/salon-booking/internal/service/bookings"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Edit(ctx context.Context, id int64, req *models.EditBookingRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

func request(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/9", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"id": "9"})
}

func TestHandle_DecodesPartialEdit(t *testing.T) {
	svc := &mockService{}
	svc.On("Edit", mock.Anything, int64(9), mock.MatchedBy(func(req *models.EditBookingRequest) bool {
		return req.Slot != nil && *req.Slot == "16:00" &&
			req.Date != nil && req.Date.String() == "2025-06-02" &&
			req.CustomerName == nil && req.Services == nil
	})).Return(&models.BookingResponse{ID: 9, Slot: "16:00"}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(w, request(`{"date":"2025-06-02","slot":"16:00"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slot":"16:00"`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"slot taken", bookings.ErrSlotTaken, http.StatusConflict, "slot_taken"},
		{"not editable", bookings.ErrNotEditable, http.StatusConflict, "conflict"},
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound, "not_found"},
		{"invalid", bookings.ErrInvalidInput, http.StatusBadRequest, "validation_error"},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Edit", mock.Anything, int64(9), mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(svc, logger.Nop()).Handle(w, request(`{"slot":"16:00"}`))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tt.code+`"`)
		})
	}
}
