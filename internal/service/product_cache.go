package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/console/internal/model"
)

const DefaultProductCacheTTL = 5 * time.Minute

type cachedProducts struct {
	products []model.Product
	expiry   time.Time
}

// ProductCache holds the last fetched product list per key (one key per
// signed-in user). Mutations patch the cached list in place of a refetch.
type ProductCache struct {
	ttl time.Duration
	now func() time.Time

	cacheMu   sync.RWMutex
	cacheData map[string]cachedProducts
	loads     singleflight.Group
}

func NewProductCache(ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultProductCacheTTL
	}
	return &ProductCache{
		ttl:       ttl,
		now:       time.Now,
		cacheData: make(map[string]cachedProducts),
	}
}

// GetOrLoad returns the cached list for key, calling load on a miss. Loads
// run without holding the cache lock and concurrent misses on one key share
// a single load.
func (c *ProductCache) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) ([]model.Product, error)) ([]model.Product, error) {
	if products, ok := c.cached(key); ok {
		return clone(products), nil
	}

	v, err, _ := c.loads.Do(key, func() (any, error) {
		// Double check logic
		if products, ok := c.cached(key); ok {
			return products, nil
		}

		products, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.cacheMu.Lock()
		c.cacheData[key] = cachedProducts{
			products: clone(products),
			expiry:   c.now().Add(c.ttl),
		}
		c.cacheMu.Unlock()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]model.Product)), nil
}

func (c *ProductCache) cached(key string) ([]model.Product, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	data, ok := c.cacheData[key]
	if !ok || !c.now().Before(data.expiry) {
		return nil, false
	}
	return data.products, true
}

// update applies fn to a live entry; expired or missing entries are left
// for the next load.
func (c *ProductCache) update(key string, fn func([]model.Product) []model.Product) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	data, ok := c.cacheData[key]
	if !ok || !c.now().Before(data.expiry) {
		return
	}
	data.products = fn(data.products)
	c.cacheData[key] = data
}

// Prepend puts a newly created product at the head of the list.
func (c *ProductCache) Prepend(key string, p model.Product) {
	c.update(key, func(list []model.Product) []model.Product {
		out := make([]model.Product, 0, len(list)+1)
		out = append(out, p)
		return append(out, list...)
	})
}

// Replace swaps the product stored under id for p.
func (c *ProductCache) Replace(key string, id string, p model.Product) {
	c.update(key, func(list []model.Product) []model.Product {
		out := clone(list)
		for i := range out {
			if out[i].ID.String() == id {
				out[i] = p
			}
		}
		return out
	})
}

// Remove drops exactly the product with the given id.
func (c *ProductCache) Remove(key string, id string) {
	c.update(key, func(list []model.Product) []model.Product {
		return RemoveProduct(list, id)
	})
}

func (c *ProductCache) Invalidate(key string) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	delete(c.cacheData, key)
}

// RemoveProduct returns list without the product whose id matches.
func RemoveProduct(list []model.Product, id string) []model.Product {
	out := make([]model.Product, 0, len(list))
	for _, p := range list {
		if p.ID.String() != id {
			out = append(out, p)
		}
	}
	return out
}

func clone(list []model.Product) []model.Product {
	if list == nil {
		return nil
	}
	out := make([]model.Product, len(list))
	copy(out, list)
	return out
}
