package catalog

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/voidshard/salespipe/pkg/domain"
)

const productsKey = "products"

// check it meets the interface
var _ Source = &Cached{}

// Cached remembers the products of a Source for ttl. Failed fetches are not
// remembered, so the next caller tries again.
type Cached struct {
	src   Source
	cache *cache.Cache
}

func NewCached(src Source, ttl time.Duration) *Cached {
	return &Cached{
		src:   src,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Products(ctx context.Context) ([]*domain.Product, error) {
	if hit, ok := c.cache.Get(productsKey); ok {
		return hit.([]*domain.Product), nil
	}

	products, err := c.src.Products(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Set(productsKey, products, cache.DefaultExpiration)
	return products, nil
}

func (c *Cached) String() string {
	return describe(c.src)
}
