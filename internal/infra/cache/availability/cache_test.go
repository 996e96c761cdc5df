package availability

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCache_Key(t *testing.T) {
	c := NewRedisCache(unreachableClient(t), time.Second, "availability")
	assert.Equal(t, "availability:2025-06-01", c.Key(types.MustDate("2025-06-01")))
	assert.Equal(t, "availability:2025-06-01:gen", c.generationKey(types.MustDate("2025-06-01")))
}

func TestRedisCache_UnavailableIsReported(t *testing.T) {
	c := NewRedisCache(unreachableClient(t), time.Second, "availability")
	ctx := context.Background()
	date := types.MustDate("2025-06-01")

	_, ok, err := c.Get(ctx, date)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	_, err = c.Generation(ctx, date)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	err = c.Set(ctx, &domain.DayAvailability{Date: date, Slots: []types.TimeString{"10:00"}, Configured: true}, 0)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	assert.ErrorIs(t, c.Invalidate(ctx, date), ErrCacheUnavailable)
	assert.ErrorIs(t, c.Ping(ctx), ErrCacheUnavailable)
}

func TestNoopCache(t *testing.T) {
	var c NoopCache
	ctx := context.Background()
	date := types.MustDate("2025-06-01")

	require.NoError(t, c.Set(ctx, &domain.DayAvailability{Date: date}, 0))

	gen, err := c.Generation(ctx, date)
	require.NoError(t, err)
	assert.Zero(t, gen)

	_, ok, err := c.Get(ctx, date)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Invalidate(ctx, date))
}

func TestRedisCache_SetWithoutTTLIsSkipped(t *testing.T) {
	c := NewRedisCache(unreachableClient(t), 0, "availability")

	err := c.Set(context.Background(), &domain.DayAvailability{Date: types.MustDate("2025-06-01")}, 0)
	assert.NoError(t, err)
}
