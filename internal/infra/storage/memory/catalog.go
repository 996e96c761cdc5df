package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/storage/catalog"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Catalog закрытия и прайс-лист в памяти процесса
type Catalog struct {
	mu       sync.RWMutex
	nextID   int64
	closures map[int64]domain.Closure
	services map[int64]domain.ServiceItem
	now      func() time.Time
}

// NewCatalog создает пустой каталог
func NewCatalog() *Catalog {
	return &Catalog{
		closures: make(map[int64]domain.Closure),
		services: make(map[int64]domain.ServiceItem),
		now:      time.Now,
	}
}

func (c *Catalog) CreateClosure(_ context.Context, closure *domain.Closure) (*domain.Closure, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.closures {
		if existing.Date.Equal(closure.Date) && existing.Label == closure.Label {
			return nil, catalog.ErrDuplicateClosure
		}
	}

	c.nextID++
	closure.ID = c.nextID
	closure.CreatedAt = c.now().UTC()
	c.closures[closure.ID] = *closure

	return closure, nil
}

func (c *Catalog) ListClosures(_ context.Context, filter domain.ClosuresFilter) ([]*domain.Closure, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*domain.Closure, 0)
	for _, closure := range c.closures {
		if filter.StartDate != nil && closure.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && closure.Date.After(*filter.EndDate) {
			continue
		}
		closure := closure
		result = append(result, &closure)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Label < result[j].Label
	})

	return result, nil
}

func (c *Catalog) ClosuresForDate(ctx context.Context, date types.Date) ([]*domain.Closure, error) {
	return c.ListClosures(ctx, domain.ClosuresFilter{StartDate: &date, EndDate: &date})
}

func (c *Catalog) DeleteClosure(_ context.Context, id int64) (types.Date, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	closure, ok := c.closures[id]
	if !ok {
		return types.Date{}, catalog.ErrClosureNotFound
	}
	delete(c.closures, id)

	return closure.Date, nil
}

func (c *Catalog) CreateService(_ context.Context, item *domain.ServiceItem) (*domain.ServiceItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nameTakenLocked(item.Name, 0) {
		return nil, catalog.ErrDuplicateService
	}

	c.nextID++
	now := c.now().UTC()
	item.ID = c.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	c.services[item.ID] = *item

	return item, nil
}

func (c *Catalog) GetService(_ context.Context, id int64) (*domain.ServiceItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return &item, nil
}

func (c *Catalog) ListServices(_ context.Context, activeOnly bool) ([]*domain.ServiceItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*domain.ServiceItem, 0, len(c.services))
	for _, item := range c.services {
		if activeOnly && !item.Active {
			continue
		}
		item := item
		result = append(result, &item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

func (c *Catalog) UpdateService(_ context.Context, item *domain.ServiceItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.services[item.ID]
	if !ok {
		return catalog.ErrServiceNotFound
	}
	if c.nameTakenLocked(item.Name, item.ID) {
		return catalog.ErrDuplicateService
	}

	item.CreatedAt = current.CreatedAt
	item.UpdatedAt = c.now().UTC()
	c.services[item.ID] = *item

	return nil
}

func (c *Catalog) DeleteService(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.services[id]; !ok {
		return catalog.ErrServiceNotFound
	}
	delete(c.services, id)

	return nil
}

func (c *Catalog) nameTakenLocked(name string, except int64) bool {
	for id, item := range c.services {
		if id != except && item.Name == name {
			return true
		}
	}
	return false
}
