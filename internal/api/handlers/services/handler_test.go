package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListServices(ctx context.Context, activeOnly bool) ([]*models.ServiceResponse, error) {
	args := m.Called(ctx, activeOnly)
	resp, _ := args.Get(0).([]*models.ServiceResponse)
	return resp, args.Error(1)
}

func (m *mockService) CreateService(ctx context.Context, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.ServiceResponse)
	return resp, args.Error(1)
}

func (m *mockService) UpdateService(ctx context.Context, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	args := m.Called(ctx, id, req)
	resp, _ := args.Get(0).(*models.ServiceResponse)
	return resp, args.Error(1)
}

func (m *mockService) DeleteService(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func withID(r *http.Request, id string) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": id})
}

func TestListActive(t *testing.T) {
	svc := &mockService{}
	svc.On("ListServices", mock.Anything, true).
		Return([]*models.ServiceResponse{{ID: 1, Name: "Стрижка", Price: 1500, DurationMinutes: 60, Active: true}}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).ListActive(w, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Стрижка"`)
	svc.AssertExpectations(t)
}

func TestListAll_Empty(t *testing.T) {
	svc := &mockService{}
	svc.On("ListServices", mock.Anything, false).Return([]*models.ServiceResponse(nil), nil)

	w := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).ListAll(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/services", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"services":[]}`, w.Body.String())
}

func TestCreate(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateService", mock.Anything, mock.MatchedBy(func(req *models.ServiceRequest) bool {
		return req.Name == "Укладка" && req.Price == 1000 && req.DurationMinutes == 30 && req.Active == nil
	})).Return(&models.ServiceResponse{ID: 2, Name: "Укладка"}, nil)

	body := `{"name":"Укладка","price":1000,"duration_minutes":30}`
	w := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Create(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/services", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateAndDelete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", catalog.ErrServiceNotFound, http.StatusNotFound},
		{"duplicate", catalog.ErrServiceExists, http.StatusConflict},
		{"invalid", catalog.ErrInvalidInput, http.StatusBadRequest},
		{"internal", catalog.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateService", mock.Anything, int64(3), mock.Anything).Return(nil, tt.err)
			svc.On("DeleteService", mock.Anything, int64(3)).Return(tt.err)
			h := NewHandler(svc, logger.Nop())

			w := httptest.NewRecorder()
			h.Update(w, withID(httptest.NewRequest(http.MethodPut, "/api/v1/admin/services/3", strings.NewReader(`{"name":"x","price":1,"duration_minutes":30}`)), "3"))
			assert.Equal(t, tt.status, w.Code)

			w = httptest.NewRecorder()
			h.Delete(w, withID(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/services/3", nil), "3"))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUpdate_BadID(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(&mockService{}, logger.Nop()).Update(w, withID(httptest.NewRequest(http.MethodPut, "/api/v1/admin/services/x", strings.NewReader(`{}`)), "x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
