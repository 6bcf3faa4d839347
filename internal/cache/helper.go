package cache

import (
	"context"
)

// UnmarshalCacheValue returns value as *T. Entries are stored by GetOrLoad as
// typed pointers, so anything else is treated as a miss.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	typed, ok := value.(*T)
	if !ok || typed == nil {
		return nil, false
	}
	return typed, true
}

// GetOrLoad returns the cached *T stored under key, or calls load and caches
// its non-nil result. A nil cache always calls load. Errors are not cached.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if c != nil {
		if value, ok := c.Get(ctx, key); ok {
			if typed, ok := UnmarshalCacheValue[T](value); ok {
				return typed, nil
			}
		}
	}

	result, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if c != nil && result != nil {
		c.Set(ctx, key, result, 0)
	}
	return result, nil
}
