package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront/config"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypublisher"
	"github.com/shopfront/storefront/lib/mypubsub"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
	"github.com/shopfront/storefront/lib/myuuid"
	"github.com/shopfront/storefront/services/auth"
	"github.com/shopfront/storefront/services/cart"
	"github.com/shopfront/storefront/services/catalog"
	"github.com/shopfront/storefront/services/checkout"
	"github.com/shopfront/storefront/services/engagement"
	"github.com/shopfront/storefront/services/wishlist"
)

func main() {
	c := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}
	// the store layer selects its implementation based on this env var
	if cfg.StoreDataDir != "" {
		os.Setenv("STORE_DATA_DIR", cfg.StoreDataDir)
	}

	conversionRate, err := decimal.NewFromString(cfg.ConversionRate)
	if err != nil {
		log.Fatalf("Error parsing conversion rate %q: %s", cfg.ConversionRate, err)
	}

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()

	router := mux.NewRouter()

	catalogService := catalog.NewService(mylog.New("catalog"))
	catalogService.RegisterEndpoints(c, router)

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c, "cart")
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	defer cartStoreCleanup()

	orderStore, orderStoreCleanup, err := mystore.New[cart.Order](c, "orders")
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()

	cartService := cart.NewService(cartStore, orderStore, nower, mylog.New("cart"), publisher)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart endpoints: %s", err)
	}

	checkoutStore, checkoutStoreCleanup, err := mystore.New[checkout.CheckoutContext](c, "checkout")
	if err != nil {
		log.Fatalf("Error creating checkout store: %s", err)
	}
	defer checkoutStoreCleanup()

	sessionStore, sessionStoreCleanup, err := mystore.New[checkout.ShippingInfo](c, "shippingData")
	if err != nil {
		log.Fatalf("Error creating shipping store: %s", err)
	}
	defer sessionStoreCleanup()

	payer := checkout.NewSimulatedPayer(cfg.PaymentDelay, cfg.PaymentDeclineRate)
	checkoutService := checkout.NewService(
		checkout.Config{
			DisplayCurrency: cfg.DisplayCurrency,
			ConversionRate:  conversionRate,
		},
		checkoutStore, sessionStore, cartService, payer,
		nower, uuider, mylog.New("checkout"), publisher)
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout endpoints: %s", err)
	}

	userStore, userStoreCleanup, err := mystore.New[auth.User](c, "user")
	if err != nil {
		log.Fatalf("Error creating user store: %s", err)
	}
	defer userStoreCleanup()

	authService := auth.NewService(userStore, cfg.LoginDelay, nower, mylog.New("auth"))
	authService.RegisterEndpoints(c, router)

	engagementService := engagement.NewService(cfg.NewsletterDelay, cfg.ContactDelay, mylog.New("engagement"))
	engagementService.RegisterEndpoints(c, router)

	wishlistStore, wishlistStoreCleanup, err := mystore.New[wishlist.Entry](c, "wishlist")
	if err != nil {
		log.Fatalf("Error creating wishlist store: %s", err)
	}
	defer wishlistStoreCleanup()

	wishlistService := wishlist.NewService(wishlistStore, pubsub, mylog.New("wishlist"))
	err = wishlistService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering wishlist endpoints: %s", err)
	}

	startWebServerBlocking(router, cfg.Port)
}

func startWebServerBlocking(router *mux.Router, port string) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s/api/products)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
