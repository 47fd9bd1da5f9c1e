package service

import (
	"context"

	"storefront/console/internal/model"
)

// Catalog is the product list as one user sees it: reads go through the
// shared cache and every successful mutation is applied to it.
type Catalog struct {
	products *ProductService
	cache    *ProductCache
	key      string
}

func NewCatalog(products *ProductService, cache *ProductCache, key string) *Catalog {
	return &Catalog{products: products, cache: cache, key: key}
}

func (c *Catalog) List(ctx context.Context) ([]model.Product, error) {
	return c.cache.GetOrLoad(ctx, c.key, c.products.List)
}

// Refresh drops the cached list and fetches it again.
func (c *Catalog) Refresh(ctx context.Context) ([]model.Product, error) {
	c.cache.Invalidate(c.key)
	return c.List(ctx)
}

func (c *Catalog) Get(ctx context.Context, id string) (*model.Product, error) {
	return c.products.Get(ctx, id)
}

func (c *Catalog) Create(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	p, err := c.products.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.Prepend(c.key, *p)
	return p, nil
}

func (c *Catalog) Update(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error) {
	p, err := c.products.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.cache.Replace(c.key, id, *p)
	return p, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.products.Delete(ctx, id); err != nil {
		return err
	}
	c.cache.Remove(c.key, id)
	return nil
}
