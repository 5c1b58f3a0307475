package client

import (
	"context"
	"sync"

	"github.com/sugarplum-bakes/orders-api/models"
)

// OrderFetcher is the slice of the API client the cache needs.
type OrderFetcher interface {
	MyCustomOrders(ctx context.Context) ([]models.CustomOrder, error)
}

// OrderCache holds the current user's custom orders for the presentation
// layer. It fetches when the identity becomes available or changes, exposes
// a loading flag while a fetch is in flight, and surfaces fetch errors
// verbatim. It never refetches on its own; Refresh is the user-triggered
// retry.
type OrderCache struct {
	fetcher OrderFetcher

	mu      sync.Mutex
	userID  string
	orders  []models.CustomOrder
	loading bool
	err     error
}

// NewOrderCache creates an empty cache over the given fetcher.
func NewOrderCache(fetcher OrderFetcher) *OrderCache {
	return &OrderCache{fetcher: fetcher}
}

// SetIdentity records the authenticated user and fetches their orders. A
// repeated call with the same identity is a no-op; a changed identity drops
// the cached orders and fetches fresh ones. An empty userID clears the cache.
func (c *OrderCache) SetIdentity(ctx context.Context, userID string) {
	c.mu.Lock()
	if userID == c.userID {
		c.mu.Unlock()
		return
	}
	c.userID = userID
	c.orders = nil
	c.err = nil
	c.mu.Unlock()

	if userID == "" {
		return
	}
	c.fetch(ctx)
}

// Refresh re-fetches the current user's orders. No-op without an identity.
func (c *OrderCache) Refresh(ctx context.Context) {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	if userID == "" {
		return
	}
	c.fetch(ctx)
}

func (c *OrderCache) fetch(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	orders, err := c.fetcher.MyCustomOrders(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.err = err
	} else {
		c.orders = orders
	}
	c.mu.Unlock()
}

// Orders returns the cached orders, newest-first.
func (c *OrderCache) Orders() []models.CustomOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CustomOrder, len(c.orders))
	copy(out, c.orders)
	return out
}

// Loading reports whether a fetch is in flight.
func (c *OrderCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last fetch error, or nil after a successful fetch.
func (c *OrderCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
