package auth

import (
	"context"
	"time"

	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
)

// One signed-in user per client session, stored under a fixed key.
const activeUserUID = "user"

type service struct {
	userStore  mystore.Store[User]
	loginDelay time.Duration
	nower      mytime.Nower
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(userStore mystore.Store[User], loginDelay time.Duration, nower mytime.Nower, logger mylog.Logger) *service {
	return &service{
		userStore:  userStore,
		loginDelay: loginDelay,
		nower:      nower,
		logger:     logger,
	}
}

// simulateRoundTrip mimics the latency of a real identity provider.
func (s *service) simulateRoundTrip(c context.Context) error {
	if s.loginDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.loginDelay)
	defer timer.Stop()

	select {
	case <-c.Done():
		return c.Err()
	case <-timer.C:
		return nil
	}
}
