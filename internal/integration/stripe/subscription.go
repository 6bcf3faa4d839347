package stripe

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stripe/stripe-go/v82"
)

type subscriptionRepository struct {
	client *Client
}

func NewSubscriptionRepository(client *Client) subscription.Repository {
	return &subscriptionRepository{client: client}
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	params := &stripe.SubscriptionRetrieveParams{
		Expand: []*string{
			stripe.String("customer"),
			stripe.String("items.data.price.product"),
		},
	}

	s, err := r.client.sc.V1Subscriptions.Retrieve(ctx, id, params)
	if err != nil {
		return nil, remoteError(err, "Could not retrieve subscription from Stripe", map[string]interface{}{
			"account":         r.client.role.String(),
			"subscription_id": id,
		})
	}
	return toSubscription(s), nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter *types.SubscriptionFilter) (*types.ListResponse[*subscription.Subscription], error) {
	if filter == nil {
		filter = &types.SubscriptionFilter{}
	}
	params := &stripe.SubscriptionListParams{
		ListParams: listParams(filter.QueryFilter),
	}
	if filter.CustomerID != "" {
		params.Customer = stripe.String(filter.CustomerID)
	}
	if filter.Status != "" {
		params.Status = stripe.String(string(filter.Status))
	}

	resp, err := collectPage(r.client.sc.V1Subscriptions.List(ctx, params), filter.QueryFilter.GetLimit(), toSubscription)
	if err != nil {
		return nil, remoteError(err, "Could not list subscriptions from Stripe", map[string]interface{}{
			"account":     r.client.role.String(),
			"customer_id": filter.CustomerID,
			"status":      string(filter.Status),
		})
	}
	return resp, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, req *subscription.CreateRequest) (*subscription.Subscription, error) {
	created, err := r.client.sc.V1Subscriptions.Create(ctx, subscriptionCreateParams(req))
	if err != nil {
		return nil, remoteError(err, "Could not create subscription in Stripe", map[string]interface{}{
			"account":     r.client.role.String(),
			"customer_id": req.CustomerID,
		})
	}
	r.client.logger.Debugw("created stripe subscription", "account", r.client.role, "subscription_id", created.ID)
	return toSubscription(created), nil
}

func (r *subscriptionRepository) Update(ctx context.Context, id string, req *subscription.UpdateRequest) (*subscription.Subscription, error) {
	updated, err := r.client.sc.V1Subscriptions.Update(ctx, id, subscriptionUpdateParams(req))
	if err != nil {
		return nil, remoteError(err, "Could not update subscription in Stripe", map[string]interface{}{
			"account":         r.client.role.String(),
			"subscription_id": id,
		})
	}
	return toSubscription(updated), nil
}
