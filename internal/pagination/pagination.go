// Package pagination drains cursor-paginated listings.
package pagination

import (
	"context"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
)

// FetchPage returns one page of a listing. The filter carries the page size
// and the id to continue after.
type FetchPage[T types.Identifiable] func(ctx context.Context, filter *types.QueryFilter) (*types.ListResponse[T], error)

// FetchAll keeps requesting pages, each one starting after the last item of
// the previous page, until the provider reports no further pages. The result
// preserves provider order. A page error is returned as-is with nothing
// retried.
func FetchAll[T types.Identifiable](ctx context.Context, pageSize int, fetch FetchPage[T]) ([]T, error) {
	filter := &types.QueryFilter{Limit: lo.ToPtr(pageSize)}
	items := make([]T, 0)

	for page := 0; ; page++ {
		resp, err := fetch(ctx, filter)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, ierr.NewError("listing returned no page").
				WithReportableDetails(map[string]interface{}{
					"page": page,
				}).
				Mark(ierr.ErrInternal)
		}

		items = append(items, resp.Items...)

		// An empty page ends the listing even when has_more is set, there is
		// no id to continue after.
		if !resp.HasMore || len(resp.Items) == 0 {
			return items, nil
		}

		next := &types.QueryFilter{
			Limit:         filter.Limit,
			StartingAfter: resp.Items[len(resp.Items)-1].GetID(),
		}
		filter = next
	}
}
