package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypublisher"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
	"github.com/shopfront/storefront/lib/myuuid"
	"github.com/shopfront/storefront/services/cart"
)

// CartService is the slice of the cart component checkout depends on:
// reading the cart to price the charge and committing the final order.
//
//go:generate mockgen -source=service.go -package checkout -destination cart_service_mock.go CartService
type CartService interface {
	Cart(c context.Context) (cart.Cart, error)
	RecordOrder(c context.Context, order cart.Order) error
}

type Config struct {
	DisplayCurrency string
	ConversionRate  decimal.Decimal
}

type service struct {
	cfg           Config
	checkoutStore mystore.Store[CheckoutContext]
	sessionStore  mystore.Store[ShippingInfo]
	cartService   CartService
	payer         Payer
	publisher     mypublisher.Publisher
	nower         mytime.Nower
	uuider        myuuid.UUIDer
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, checkoutStore mystore.Store[CheckoutContext], sessionStore mystore.Store[ShippingInfo], cartService CartService, payer Payer, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		cfg:           cfg,
		checkoutStore: checkoutStore,
		sessionStore:  sessionStore,
		cartService:   cartService,
		payer:         payer,
		publisher:     pub,
		nower:         nower,
		uuider:        uuider,
		logger:        logger,
	}
}
