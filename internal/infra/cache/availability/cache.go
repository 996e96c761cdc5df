package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// entry формат записи в Redis
type entry struct {
	Slots      []types.TimeString `json:"slots"`
	Configured bool               `json:"configured"`
}

// generationTTL время жизни счетчика поколений даты
// Должно быть заметно больше времени расчета доступности одним запросом
const generationTTL = 24 * time.Hour

// setIfCurrent сохраняет запись, только если поколение даты не изменилось с начала расчета
// KEYS[1] - запись, KEYS[2] - поколение; ARGV[1] - ожидаемое поколение, ARGV[2] - значение, ARGV[3] - ttl в мс
var setIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if (gen or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisCache кэш рассчитанной доступности по дате
// Записи живут ttl и удаляются при любом изменении бронирований или закрытий на дату.
// Каждое удаление увеличивает поколение даты, и запись, рассчитанная до него, уже не сохранится.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisCache создает кэш поверх клиента Redis
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, prefix string) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: prefix}
}

// Key ключ записи для даты
func (c *RedisCache) Key(date types.Date) string {
	return fmt.Sprintf("%s:%s", c.prefix, date)
}

// Get возвращает доступность из кэша. ok=false означает промах
func (c *RedisCache) Get(ctx context.Context, date types.Date) (*domain.DayAvailability, bool, error) {
	raw, err := c.client.Get(ctx, c.Key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get - %v", ErrCacheUnavailable, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("%w: Get - %v", ErrDecode, err)
	}

	slots := e.Slots
	if slots == nil {
		slots = []types.TimeString{}
	}

	return &domain.DayAvailability{Date: date, Slots: slots, Configured: e.Configured}, true, nil
}

// Generation текущее поколение даты. Читается до обращения к хранилищу
func (c *RedisCache) Generation(ctx context.Context, date types.Date) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Generation - %v", ErrCacheUnavailable, err)
	}
	return gen, nil
}

// Set сохраняет доступность на ttl, если поколение даты все еще равно generation
func (c *RedisCache) Set(ctx context.Context, day *domain.DayAvailability, generation int64) error {
	if c.ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(entry{Slots: day.Slots, Configured: day.Configured})
	if err != nil {
		return fmt.Errorf("%w: Set - %v", ErrDecode, err)
	}

	keys := []string{c.Key(day.Date), c.generationKey(day.Date)}
	err = setIfCurrent.Run(ctx, c.client, keys, strconv.FormatInt(generation, 10), raw, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("%w: Set - %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Invalidate удаляет запись для даты и сдвигает её поколение
func (c *RedisCache) Invalidate(ctx context.Context, date types.Date) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey(date))
		pipe.Expire(ctx, c.generationKey(date), generationTTL)
		pipe.Del(ctx, c.Key(date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Invalidate - %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache) generationKey(date types.Date) string {
	return c.Key(date) + ":gen"
}

// Ping проверяет доступность Redis
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: Ping - %v", ErrCacheUnavailable, err)
	}
	return nil
}

// NoopCache отключенный кэш: всегда промах
type NoopCache struct{}

func (NoopCache) Get(context.Context, types.Date) (*domain.DayAvailability, bool, error) {
	return nil, false, nil
}

func (NoopCache) Generation(context.Context, types.Date) (int64, error) { return 0, nil }

func (NoopCache) Set(context.Context, *domain.DayAvailability, int64) error { return nil }

func (NoopCache) Invalidate(context.Context, types.Date) error { return nil }
