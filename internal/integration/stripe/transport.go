package stripe

import (
	"net/http"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"golang.org/x/time/rate"
)

// throttledTransport waits for the limiter before every request. It only
// paces requests; a failed request is returned as-is.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newThrottledTransport(base http.RoundTripper, limiter *rate.Limiter) http.RoundTripper {
	if limiter == nil {
		return base
	}
	return &throttledTransport{base: base, limiter: limiter}
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Request cancelled while waiting for the rate limiter").
			Mark(ierr.ErrSystem)
	}
	return t.base.RoundTrip(req)
}
