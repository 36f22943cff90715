package engagement

import (
	"context"
	"time"

	"github.com/shopfront/storefront/lib/mylog"
)

// There is no mailing list or ticketing system behind this service: the
// submissions are validated, logged and acknowledged after a simulated
// round-trip.
type service struct {
	newsletterDelay time.Duration
	contactDelay    time.Duration
	logger          mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(newsletterDelay time.Duration, contactDelay time.Duration, logger mylog.Logger) *service {
	return &service{
		newsletterDelay: newsletterDelay,
		contactDelay:    contactDelay,
		logger:          logger,
	}
}

// simulateRoundTrip mimics the latency of a real backend taking the
// submission.
func (s *service) simulateRoundTrip(c context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-c.Done():
		return c.Err()
	case <-timer.C:
		return nil
	}
}
