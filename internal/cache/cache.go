package cache

import (
	"context"
	"time"
)

// Cache stores lookups made against the remote accounts during one run.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

// Key prefixes. Each key also carries the account role so source and target
// entries never collide.
const (
	PrefixProductByName   = "product_by_name"
	PrefixProductByID     = "product_by_id"
	PrefixCustomerByEmail = "customer_by_email"
)

// Key builds a cache key from a prefix and its parts.
func Key(prefix string, parts ...string) string {
	key := prefix
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
