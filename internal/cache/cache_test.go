package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flexprice/stripe-migrate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID string `json:"id"`
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(&config.Configuration{Cache: config.CacheConfig{Enabled: true, Expiry: time.Minute}})

	c.Set(ctx, Key(PrefixProductByName, "target", "Pro"), &entry{ID: "prod_1"}, 0)
	c.Set(ctx, Key(PrefixProductByName, "target", "Team"), &entry{ID: "prod_2"}, 0)
	c.Set(ctx, Key(PrefixCustomerByEmail, "target", "a@b.c"), &entry{ID: "cus_1"}, 0)

	value, ok := c.Get(ctx, "product_by_name:target:Pro")
	require.True(t, ok)
	assert.Equal(t, "prod_1", value.(*entry).ID)

	c.DeleteByPrefix(ctx, PrefixProductByName)
	_, ok = c.Get(ctx, "product_by_name:target:Team")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "customer_by_email:target:a@b.c")
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, "customer_by_email:target:a@b.c")
	assert.False(t, ok)
}

func TestDisabledCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(&config.Configuration{Cache: config.CacheConfig{Enabled: false}})

	c.Set(ctx, "k", &entry{ID: "x"}, 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestUnmarshalCacheValue(t *testing.T) {
	typed, ok := UnmarshalCacheValue[entry](&entry{ID: "a"})
	require.True(t, ok)
	assert.Equal(t, "a", typed.ID)

	_, ok = UnmarshalCacheValue[entry](`{"id":"b"}`)
	assert.False(t, ok)
	_, ok = UnmarshalCacheValue[entry]((*entry)(nil))
	assert.False(t, ok)

	_, ok = UnmarshalCacheValue[entry](nil)
	assert.False(t, ok)
	_, ok = UnmarshalCacheValue[entry](42)
	assert.False(t, ok)
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(&config.Configuration{Cache: config.CacheConfig{Enabled: true}})
	calls := 0
	load := func(context.Context) (*entry, error) {
		calls++
		return &entry{ID: "loaded"}, nil
	}

	first, err := GetOrLoad(ctx, c, "k", load)
	require.NoError(t, err)
	second, err := GetOrLoad(ctx, c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "loaded", first.ID)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	_, err = GetOrLoad(ctx, c, "failing", func(context.Context) (*entry, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
	_, ok := c.Get(ctx, "failing")
	assert.False(t, ok)

	fromNil, err := GetOrLoad[entry](ctx, nil, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "loaded", fromNil.ID)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_ReloadsForeignValue(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(&config.Configuration{Cache: config.CacheConfig{Enabled: true}})
	c.Set(ctx, "k", `{"id":"stale"}`, 0)

	got, err := GetOrLoad(ctx, c, "k", func(context.Context) (*entry, error) {
		return &entry{ID: "fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.ID)

	value, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "fresh", value.(*entry).ID)
}
