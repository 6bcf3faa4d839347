package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAddPairs(t *testing.T) {
	record := map[string]interface{}{}
	addPairs(record, []interface{}{
		"product_id", "prod_1",
		42, "dropped",
		"error", errors.New("boom"),
		"dangling",
	})

	assert.Equal(t, map[string]interface{}{
		"product_id": "prod_1",
		"error":      "boom",
	}, record)
}

func TestWithAccumulatesFields(t *testing.T) {
	ctx := types.SetRunID(context.Background(), "run_1")
	ctx = types.SetAccount(ctx, types.AccountTarget)

	l := GetLogger().WithContext(ctx).With("product_id", "prod_1")

	assert.Equal(t, []interface{}{
		"run_id", "run_1",
		"account", "target",
		"product_id", "prod_1",
	}, l.fields)
}
