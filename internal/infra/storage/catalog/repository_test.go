package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/dbmetrics"
	"github.com/m04kA/salon-booking/pkg/psqlbuilder"
	"github.com/m04kA/salon-booking/pkg/ptr"
	"github.com/m04kA/salon-booking/pkg/types"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewRepository(dbmetrics.Wrap(sqlDB, nil), psqlbuilder.DialectSQLite)
	require.NoError(t, repo.Migrate(context.Background()))

	return repo
}

func TestRepository_Closures(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	evening, err := repo.CreateClosure(ctx, &domain.Closure{
		Date:   types.MustDate("2025-06-01"),
		Label:  types.MustTimeString("19:00"),
		Reason: ptr.Ptr("мастер на обучении"),
	})
	require.NoError(t, err)
	assert.NotZero(t, evening.ID)

	_, err = repo.CreateClosure(ctx, &domain.Closure{Date: types.MustDate("2025-06-02")})
	require.NoError(t, err)

	t.Run("duplicate", func(t *testing.T) {
		_, err := repo.CreateClosure(ctx, &domain.Closure{
			Date:  types.MustDate("2025-06-01"),
			Label: types.MustTimeString("19:00"),
		})
		assert.ErrorIs(t, err, ErrDuplicateClosure)
	})

	t.Run("for date", func(t *testing.T) {
		closures, err := repo.ClosuresForDate(ctx, types.MustDate("2025-06-01"))
		require.NoError(t, err)
		require.Len(t, closures, 1)
		assert.Equal(t, types.MustTimeString("19:00"), closures[0].Label)
		require.NotNil(t, closures[0].Reason)
		assert.Equal(t, "мастер на обучении", *closures[0].Reason)
	})

	t.Run("full day", func(t *testing.T) {
		closures, err := repo.ClosuresForDate(ctx, types.MustDate("2025-06-02"))
		require.NoError(t, err)
		require.Len(t, closures, 1)
		assert.True(t, closures[0].IsFullDay())
		assert.Nil(t, closures[0].Reason)
	})

	t.Run("list all", func(t *testing.T) {
		closures, err := repo.ListClosures(ctx, domain.ClosuresFilter{})
		require.NoError(t, err)
		assert.Len(t, closures, 2)
	})

	t.Run("delete", func(t *testing.T) {
		date, err := repo.DeleteClosure(ctx, evening.ID)
		require.NoError(t, err)
		assert.Equal(t, types.MustDate("2025-06-01"), date)

		_, err = repo.DeleteClosure(ctx, evening.ID)
		assert.ErrorIs(t, err, ErrClosureNotFound)
	})
}

func TestRepository_Services(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cut, err := repo.CreateService(ctx, &domain.ServiceItem{Name: "Стрижка", Price: 1500, DurationMinutes: 60, Active: true})
	require.NoError(t, err)
	_, err = repo.CreateService(ctx, &domain.ServiceItem{Name: "Окрашивание", Price: 4000, DurationMinutes: 120, Active: false})
	require.NoError(t, err)

	_, err = repo.CreateService(ctx, &domain.ServiceItem{Name: "Стрижка", Price: 1, DurationMinutes: 30, Active: true})
	assert.ErrorIs(t, err, ErrDuplicateService)

	active, err := repo.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Стрижка", active[0].Name)
	assert.Equal(t, 1500.0, active[0].Price)
	assert.True(t, active[0].Active)

	all, err := repo.ListServices(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cut.Price = 1700
	cut.Active = false
	require.NoError(t, repo.UpdateService(ctx, cut))

	got, err := repo.GetService(ctx, cut.ID)
	require.NoError(t, err)
	assert.Equal(t, 1700.0, got.Price)
	assert.False(t, got.Active)

	require.NoError(t, repo.DeleteService(ctx, cut.ID))
	assert.ErrorIs(t, repo.DeleteService(ctx, cut.ID), ErrServiceNotFound)

	_, err = repo.GetService(ctx, cut.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	assert.ErrorIs(t, repo.UpdateService(ctx, &domain.ServiceItem{ID: 999, Name: "x", DurationMinutes: 30}), ErrServiceNotFound)
}
