package cart

import (
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypublisher"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
)

// The active cart lives under a single fixed key: one client session owns
// one cart.
const activeCartUID = "cart"

type service struct {
	cartStore  mystore.Store[Cart]
	orderStore mystore.Store[Order]
	publisher  mypublisher.Publisher
	nower      mytime.Nower
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cartStore mystore.Store[Cart], orderStore mystore.Store[Order], nower mytime.Nower, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		cartStore:  cartStore,
		orderStore: orderStore,
		publisher:  pub,
		nower:      nower,
		logger:     logger,
	}
}
