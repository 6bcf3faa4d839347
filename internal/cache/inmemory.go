package cache

import (
	"context"
	"strings"
	"time"

	"github.com/flexprice/stripe-migrate/internal/config"
	"github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// InMemoryCache implements Cache on top of go-cache.
type InMemoryCache struct {
	cache   *cache.Cache
	enabled bool
}

// NewInMemoryCache creates a cache honoring cfg.Cache. A disabled cache
// accepts writes and never returns a hit.
func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	expiry := ExpiryDefaultInMemory
	enabled := true
	if cfg != nil {
		enabled = cfg.Cache.Enabled
		if cfg.Cache.Expiry > 0 {
			expiry = cfg.Cache.Expiry
		}
	}
	return &InMemoryCache{
		cache:   cache.New(expiry, cleanupInterval),
		enabled: enabled,
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration <= 0 {
		expiration = cache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}
