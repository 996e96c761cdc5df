package manage_closures

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/types"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListClosures(ctx context.Context, req models.ListClosuresRequest) ([]*models.ClosureResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).([]*models.ClosureResponse)
	return resp, args.Error(1)
}

func (m *mockService) CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.ClosureResponse)
	return resp, args.Error(1)
}

func (m *mockService) DeleteClosure(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var day = types.MustDate("2025-06-01")

func TestList(t *testing.T) {
	svc := &mockService{}
	svc.On("ListClosures", mock.Anything, mock.MatchedBy(func(req models.ListClosuresRequest) bool {
		return req.From != nil && req.From.Equal(day) && req.To == nil
	})).Return([]*models.ClosureResponse(nil), nil)

	w := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).List(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/closures?from=2025-06-01", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"closures":[],"total":0}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CreateClosure", mock.Anything, &models.CreateClosureRequest{Date: day, Slot: "16:00"}).
			Return(&models.ClosureResponse{ID: 1, Date: day, Slot: "16:00"}, nil)

		w := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/closures", strings.NewReader(`{"date":"2025-06-01","slot":"16:00"}`)))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CreateClosure", mock.Anything, mock.Anything).Return(nil, catalog.ErrClosureExists)

		w := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/closures", strings.NewReader(`{"date":"2025-06-01"}`)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		svc := &mockService{}
		svc.On("CreateClosure", mock.Anything, mock.Anything).Return(nil, catalog.ErrInvalidInput)

		w := httptest.NewRecorder()
		NewHandler(svc, logger.Nop()).Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/closures", strings.NewReader(`{"date":"2025-06-01","slot":"9am"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not found", catalog.ErrClosureNotFound, http.StatusNotFound},
		{"internal", catalog.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("DeleteClosure", mock.Anything, int64(2)).Return(tt.err)

			r := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/closures/2", nil), map[string]string{"id": "2"})
			w := httptest.NewRecorder()
			NewHandler(svc, logger.Nop()).Delete(w, r)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
