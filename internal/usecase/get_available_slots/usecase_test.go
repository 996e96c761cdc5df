package get_available_slots

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/cache/availability"
	"github.com/m04kA/salon-booking/internal/infra/storage/memory"
	catalogService "github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/pkg/logger"
	"github.com/m04kA/salon-booking/pkg/metrics"
	"github.com/m04kA/salon-booking/pkg/types"
)

var day = types.MustDate("2025-06-01")

type mapCache struct {
	mu          sync.Mutex
	items       map[types.Date]domain.DayAvailability
	generations map[types.Date]int64
}

func newMapCache() *mapCache {
	return &mapCache{
		items:       make(map[types.Date]domain.DayAvailability),
		generations: make(map[types.Date]int64),
	}
}

func (c *mapCache) Get(_ context.Context, date types.Date) (*domain.DayAvailability, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.items[date]
	if !ok {
		return nil, false, nil
	}
	return &d, true, nil
}

func (c *mapCache) Generation(_ context.Context, date types.Date) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[date], nil
}

func (c *mapCache) Set(_ context.Context, d *domain.DayAvailability, generation int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[d.Date] != generation {
		return nil
	}
	c.items[d.Date] = *d
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, date types.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[date]++
	delete(c.items, date)
	return nil
}

// racingLedger после чтения занятых слотов выполняет запись,
// как конкурентное бронирование между расчетом и сохранением в кэш
type racingLedger struct {
	*memory.Ledger
	once  sync.Once
	write func()
}

func (l *racingLedger) HeldSlots(ctx context.Context, date types.Date) ([]types.TimeString, error) {
	held, err := l.Ledger.HeldSlots(ctx, date)
	l.once.Do(l.write)
	return held, err
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) AvailableTemplate(ctx context.Context, date types.Date) ([]types.TimeString, bool, error) {
	args := m.Called(ctx, date)
	slots, _ := args.Get(0).([]types.TimeString)
	return slots, args.Bool(1), args.Error(2)
}

type brokenLedger struct{}

func (brokenLedger) HeldSlots(context.Context, types.Date) ([]types.TimeString, error) {
	return nil, errors.New("connection refused")
}

type fixture struct {
	uc      *UseCase
	ledger  *memory.Ledger
	catalog *memory.Catalog
}

func newFixture(cache AvailabilityCache) *fixture {
	store := memory.NewCatalog()
	ledger := memory.NewLedger()
	catalog := catalogService.NewService(
		catalogService.Schedule{DefaultSlots: []types.TimeString{"14:00", "16:00", "18:00"}},
		store, store, availability.NoopCache{}, logger.Nop(),
	)
	return &fixture{
		uc:      NewUseCase(catalog, ledger, cache, metrics.New("test"), logger.Nop()),
		ledger:  ledger,
		catalog: store,
	}
}

func (f *fixture) book(t *testing.T, slot string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.ledger.Create(context.Background(), &domain.Booking{
		Date:         day,
		SlotLabel:    types.MustTimeString(slot),
		CustomerName: "Анна",
		Phone:        "+79990001122",
		Status:       status,
	})
	require.NoError(t, err)
	return b
}

func TestExecute_AllSlotsFree(t *testing.T) {
	f := newFixture(availability.NoopCache{})

	resp, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.True(t, resp.Configured)
	assert.Equal(t, []types.TimeString{"14:00", "16:00", "18:00"}, resp.Slots)
}

func TestExecute_BookedSlotExcluded(t *testing.T) {
	f := newFixture(availability.NoopCache{})
	f.book(t, "14:00", domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"16:00", "18:00"}, resp.Slots)
}

func TestExecute_ClosedSlotExcluded(t *testing.T) {
	f := newFixture(availability.NoopCache{})
	_, err := f.catalog.CreateClosure(context.Background(), &domain.Closure{Date: day, Label: "16:00"})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"14:00", "18:00"}, resp.Slots)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(availability.NoopCache{})
	b := f.book(t, "18:00", domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"14:00", "16:00"}, resp.Slots)

	require.NoError(t, f.ledger.UpdateStatus(context.Background(), b.ID, domain.StatusCancelled))

	resp, err = f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"14:00", "16:00", "18:00"}, resp.Slots)
}

func TestExecute_IdempotentReads(t *testing.T) {
	f := newFixture(availability.NoopCache{})
	f.book(t, "16:00", domain.StatusCompleted)

	first, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_ServedFromCache(t *testing.T) {
	cache := newMapCache()
	f := newFixture(cache)

	first, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)

	cached, ok, err := cache.Get(context.Background(), day)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Slots, cached.Slots)

	// запись мимо use case без инвалидации: в пределах TTL отдается кэш
	f.book(t, "14:00", domain.StatusPending)

	second, err := f.uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, first.Slots, second.Slots)
}

func TestExecute_WriteDuringComputeIsNotCached(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	store := memory.NewCatalog()
	catalog := catalogService.NewService(
		catalogService.Schedule{DefaultSlots: []types.TimeString{"14:00", "16:00", "18:00"}},
		store, store, availability.NoopCache{}, logger.Nop(),
	)

	ledger := &racingLedger{Ledger: memory.NewLedger()}
	ledger.write = func() {
		_, err := ledger.Ledger.Create(ctx, &domain.Booking{
			Date:         day,
			SlotLabel:    "14:00",
			CustomerName: "Анна",
			Phone:        "+79990001122",
			Status:       domain.StatusPending,
		})
		require.NoError(t, err)
		require.NoError(t, cache.Invalidate(ctx, day))
	}

	uc := NewUseCase(catalog, ledger, cache, nil, logger.Nop())

	// расчет начался до записи и видит 14:00 свободным, но в кэш не попадает
	first, err := uc.Execute(ctx, &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"14:00", "16:00", "18:00"}, first.Slots)

	_, ok, err := cache.Get(ctx, day)
	require.NoError(t, err)
	assert.False(t, ok)

	second, err := uc.Execute(ctx, &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"16:00", "18:00"}, second.Slots)

	cached, ok, err := cache.Get(ctx, day)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.Slots, cached.Slots)
}

func TestExecute_ConfigMissingDegrades(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("AvailableTemplate", mock.Anything, day).
		Return(nil, false, catalogService.ErrConfigMissing)

	cache := newMapCache()
	uc := NewUseCase(catalog, memory.NewLedger(), cache, nil, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.False(t, resp.Configured)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)

	_, ok, _ := cache.Get(context.Background(), day)
	assert.False(t, ok)
	catalog.AssertExpectations(t)
}

func TestExecute_NotConfigured(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("AvailableTemplate", mock.Anything, day).Return([]types.TimeString{}, false, nil)

	uc := NewUseCase(catalog, brokenLedger{}, availability.NoopCache{}, nil, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.False(t, resp.Configured)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PersistenceError(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("AvailableTemplate", mock.Anything, day).Return([]types.TimeString{"14:00"}, true, nil)

	uc := NewUseCase(catalog, brokenLedger{}, availability.NoopCache{}, nil, logger.Nop())

	_, err := uc.Execute(context.Background(), &Request{Date: day})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(availability.NoopCache{})

	_, err := f.uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
