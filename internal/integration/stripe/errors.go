package stripe

import (
	"errors"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

// remoteError marks err as a remote API error, keeping the provider's
// message and request id.
func remoteError(err error, hint string, details map[string]interface{}) error {
	merged := make(map[string]interface{}, len(details)+3)
	for k, v := range details {
		merged[k] = v
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		merged["stripe_code"] = string(stripeErr.Code)
		merged["http_status"] = stripeErr.HTTPStatusCode
		merged["request_id"] = stripeErr.RequestID
		return ierr.NewError(stripeErr.Msg).
			WithHint(hint).
			WithReportableDetails(merged).
			Mark(ierr.ErrRemoteAPI)
	}

	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(merged).
		Mark(ierr.ErrRemoteAPI)
}
