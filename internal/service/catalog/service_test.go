package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/cache/availability"
	"github.com/m04kA/salon-booking/internal/infra/storage/memory"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/ptr"
	"github.com/m04kA/salon-booking/pkg/types"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Invalidate(ctx context.Context, date types.Date) error {
	return m.Called(ctx, date).Error(0)
}

type failingClosures struct {
	*memory.Catalog
}

func (failingClosures) ClosuresForDate(context.Context, types.Date) ([]*domain.Closure, error) {
	return nil, errors.New("connection refused")
}

func labels(ss ...string) []types.TimeString {
	result := make([]types.TimeString, 0, len(ss))
	for _, s := range ss {
		result = append(result, types.MustTimeString(s))
	}
	return result
}

func newTestService(schedule Schedule) (*Service, *memory.Catalog) {
	store := memory.NewCatalog()
	return NewService(schedule, store, store, availability.NoopCache{}, logger.Nop()), store
}

// 2025-06-01 - воскресенье
var sunday = types.MustDate("2025-06-01")

func TestAvailableTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("default labels in order", func(t *testing.T) {
		svc, _ := newTestService(Schedule{DefaultSlots: labels("14:00", "16:00", "18:00")})

		got, configured, err := svc.AvailableTemplate(ctx, sunday)
		require.NoError(t, err)
		assert.True(t, configured)
		assert.Equal(t, labels("14:00", "16:00", "18:00"), got)
	})

	t.Run("closure removes label", func(t *testing.T) {
		svc, store := newTestService(Schedule{DefaultSlots: labels("14:00", "16:00", "18:00")})
		_, err := store.CreateClosure(ctx, &domain.Closure{Date: sunday, Label: "16:00"})
		require.NoError(t, err)

		got, _, err := svc.AvailableTemplate(ctx, sunday)
		require.NoError(t, err)
		assert.Equal(t, labels("14:00", "18:00"), got)

		// закрытие не влияет на другие даты
		got, _, err = svc.AvailableTemplate(ctx, sunday.AddDays(1))
		require.NoError(t, err)
		assert.Equal(t, labels("14:00", "16:00", "18:00"), got)
	})

	t.Run("full day closure", func(t *testing.T) {
		svc, store := newTestService(Schedule{DefaultSlots: labels("14:00", "16:00")})
		_, err := store.CreateClosure(ctx, &domain.Closure{Date: sunday})
		require.NoError(t, err)

		got, configured, err := svc.AvailableTemplate(ctx, sunday)
		require.NoError(t, err)
		assert.True(t, configured)
		assert.Empty(t, got)
	})

	t.Run("weekday override", func(t *testing.T) {
		svc, _ := newTestService(Schedule{
			DefaultSlots: labels("14:00", "16:00"),
			Weekdays: map[time.Weekday][]types.TimeString{
				time.Sunday:   {},
				time.Saturday: labels("10:00", "12:00"),
			},
		})

		got, configured, err := svc.AvailableTemplate(ctx, sunday)
		require.NoError(t, err)
		assert.True(t, configured)
		assert.Empty(t, got)

		got, _, err = svc.AvailableTemplate(ctx, sunday.AddDays(-1))
		require.NoError(t, err)
		assert.Equal(t, labels("10:00", "12:00"), got)

		got, _, err = svc.AvailableTemplate(ctx, sunday.AddDays(1))
		require.NoError(t, err)
		assert.Equal(t, labels("14:00", "16:00"), got)
	})

	t.Run("duplicates removed", func(t *testing.T) {
		svc, _ := newTestService(Schedule{DefaultSlots: labels("14:00", "14:00", "12:00")})

		got, _, err := svc.AvailableTemplate(ctx, sunday)
		require.NoError(t, err)
		assert.Equal(t, labels("14:00", "12:00"), got)
	})

	t.Run("not configured", func(t *testing.T) {
		svc, _ := newTestService(Schedule{})

		got, configured, err := svc.AvailableTemplate(ctx, sunday)
		require.NoError(t, err)
		assert.False(t, configured)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("closures unavailable", func(t *testing.T) {
		store := memory.NewCatalog()
		svc := NewService(Schedule{DefaultSlots: labels("14:00")}, failingClosures{store}, store,
			availability.NoopCache{}, logger.Nop())

		got, configured, err := svc.AvailableTemplate(ctx, sunday)
		assert.ErrorIs(t, err, ErrConfigMissing)
		assert.False(t, configured)
		assert.Empty(t, got)
	})
}

func TestQuoteServices(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(Schedule{DefaultSlots: labels("14:00"), SlotDurationMinutes: 45})

	_, err := store.CreateService(ctx, &domain.ServiceItem{Name: "Стрижка", Price: 1500, DurationMinutes: 60, Active: true})
	require.NoError(t, err)
	_, err = store.CreateService(ctx, &domain.ServiceItem{Name: "Укладка", Price: 800, DurationMinutes: 30, Active: true})
	require.NoError(t, err)
	_, err = store.CreateService(ctx, &domain.ServiceItem{Name: "Окрашивание", Price: 4000, DurationMinutes: 120, Active: false})
	require.NoError(t, err)

	t.Run("sum of services", func(t *testing.T) {
		quote, err := svc.QuoteServices(ctx, []string{"стрижка", " Укладка "})
		require.NoError(t, err)
		assert.Equal(t, []string{"Стрижка", "Укладка"}, quote.Names)
		assert.Equal(t, 2300.0, quote.Price)
		assert.Equal(t, 90, quote.DurationMinutes)
	})

	t.Run("no services uses default duration", func(t *testing.T) {
		quote, err := svc.QuoteServices(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, quote.Price)
		assert.Equal(t, 45, quote.DurationMinutes)
	})

	t.Run("inactive service rejected", func(t *testing.T) {
		_, err := svc.QuoteServices(ctx, []string{"Окрашивание"})
		assert.ErrorIs(t, err, ErrUnknownService)
	})

	t.Run("unknown service rejected", func(t *testing.T) {
		_, err := svc.QuoteServices(ctx, []string{"Маникюр"})
		assert.ErrorIs(t, err, ErrUnknownService)
	})
}

func TestClosures_InvalidateCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCatalog()
	cache := new(mockCache)
	cache.On("Invalidate", mock.Anything, sunday).Return(nil).Twice()

	svc := NewService(Schedule{DefaultSlots: labels("14:00")}, store, store, cache, logger.Nop())

	created, err := svc.CreateClosure(ctx, &models.CreateClosureRequest{Date: sunday, Slot: "14:00", Reason: ptr.Ptr("ремонт")})
	require.NoError(t, err)
	assert.False(t, created.FullDay)
	assert.Equal(t, "14:00", created.Slot)

	_, err = svc.CreateClosure(ctx, &models.CreateClosureRequest{Date: sunday, Slot: "14:00"})
	assert.ErrorIs(t, err, ErrClosureExists)

	list, err := svc.ListClosures(ctx, models.ListClosuresRequest{From: &sunday, To: &sunday})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteClosure(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteClosure(ctx, created.ID), ErrClosureNotFound)

	cache.AssertExpectations(t)
}

func TestCreateClosure_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Schedule{})

	_, err := svc.CreateClosure(ctx, &models.CreateClosureRequest{Slot: "14:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateClosure(ctx, &models.CreateClosureRequest{Date: sunday, Slot: "25:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	full, err := svc.CreateClosure(ctx, &models.CreateClosureRequest{Date: sunday})
	require.NoError(t, err)
	assert.True(t, full.FullDay)
}

func TestServicesCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Schedule{})

	_, err := svc.CreateService(ctx, &models.ServiceRequest{Name: "  ", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateService(ctx, &models.ServiceRequest{Name: "Стрижка", DurationMinutes: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateService(ctx, &models.ServiceRequest{Name: "Стрижка", Price: -1, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := svc.CreateService(ctx, &models.ServiceRequest{Name: "Стрижка", Price: 1500, DurationMinutes: 60})
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = svc.CreateService(ctx, &models.ServiceRequest{Name: "Стрижка", Price: 1, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrServiceExists)

	updated, err := svc.UpdateService(ctx, created.ID, &models.ServiceRequest{Name: "Стрижка", Price: 1700, DurationMinutes: 60, Active: ptr.Ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 1700.0, updated.Price)
	assert.False(t, updated.Active)

	active, err := svc.ListServices(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListServices(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.UpdateService(ctx, 999, &models.ServiceRequest{Name: "X", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	require.NoError(t, svc.DeleteService(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteService(ctx, created.ID), ErrServiceNotFound)
}
