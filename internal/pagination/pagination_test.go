package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id string
}

func (i *item) GetID() string { return i.id }

// pager serves ids in pages of filter.GetLimit() items, continuing after
// StartingAfter, and records every cursor it was asked for.
type pager struct {
	ids     []string
	cursors []string
	failAt  int
}

func (p *pager) fetch(_ context.Context, filter *types.QueryFilter) (*types.ListResponse[*item], error) {
	p.cursors = append(p.cursors, filter.GetStartingAfter())
	if p.failAt > 0 && len(p.cursors) == p.failAt {
		return nil, errors.New("remote failure")
	}

	start := 0
	if after := filter.GetStartingAfter(); after != "" {
		for i, id := range p.ids {
			if id == after {
				start = i + 1
			}
		}
	}
	end := start + filter.GetLimit()
	if end > len(p.ids) {
		end = len(p.ids)
	}

	resp := &types.ListResponse[*item]{HasMore: end < len(p.ids)}
	for _, id := range p.ids[start:end] {
		resp.Items = append(resp.Items, &item{id: id})
	}
	return resp, nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("obj_%03d", i)
	}
	return out
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name            string
		total           int
		pageSize        int
		expectedCursors []string
	}{
		{name: "empty first page", total: 0, pageSize: 100, expectedCursors: []string{""}},
		{name: "single page", total: 3, pageSize: 100, expectedCursors: []string{""}},
		{name: "multiple pages", total: 5, pageSize: 2, expectedCursors: []string{"", "obj_001", "obj_003"}},
		{name: "exact multiple", total: 4, pageSize: 2, expectedCursors: []string{"", "obj_001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pager{ids: ids(tt.total)}

			items, err := FetchAll(context.Background(), tt.pageSize, p.fetch)
			require.NoError(t, err)
			require.NotNil(t, items)
			assert.Len(t, items, tt.total)
			for i, it := range items {
				assert.Equal(t, p.ids[i], it.GetID())
			}
			assert.Equal(t, tt.expectedCursors, p.cursors)
		})
	}
}

func TestFetchAllPropagatesError(t *testing.T) {
	p := &pager{ids: ids(5), failAt: 2}

	items, err := FetchAll(context.Background(), 2, p.fetch)
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Len(t, p.cursors, 2)
}

func TestFetchAllStopsOnEmptyPageWithMore(t *testing.T) {
	calls := 0
	fetch := func(context.Context, *types.QueryFilter) (*types.ListResponse[*item], error) {
		calls++
		return &types.ListResponse[*item]{HasMore: true}, nil
	}

	items, err := FetchAll(context.Background(), 10, fetch)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 1, calls)
}
