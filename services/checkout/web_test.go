package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypublisher"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
	"github.com/shopfront/storefront/lib/myuuid"
	"github.com/shopfront/storefront/services/cart"
	"github.com/shopfront/storefront/services/checkout/checkoutevents"
)

var (
	checkoutInReview = CheckoutContext{
		UID:        "c-123",
		State:      StateReview,
		CreatedAt:  mytime.ExampleTime,
		TotalCents: 2500,
		Currency:   "INR",
	}
	checkoutInPayment = CheckoutContext{
		UID:        "c-123",
		State:      StatePayment,
		CreatedAt:  mytime.ExampleTime,
		TotalCents: 2500,
		Currency:   "INR",
	}
	filledCart = cart.Cart{
		Items: []cart.Item{
			{ID: "p1", Name: "Wireless Headphones", PriceCents: 1000, Quantity: 2},
			{ID: "p2", Name: "Phone Case", PriceCents: 500, Quantity: 1},
		},
	}
	shipping = ShippingInfo{
		FirstName: "Marc",
		LastName:  "Grol",
		Email:     "marc@example.com",
		Address:   "Main street 1",
		City:      "Amsterdam",
		ZipCode:   "1000AA",
		Country:   "NL",
	}
)

func TestCheckoutService(t *testing.T) {

	t.Run("Start checkout with empty cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, deps := setup(t, ctrl)

		// given
		deps.cartService.EXPECT().Cart(gomock.Any()).Return(cart.Cart{}, nil)

		// when
		response := doRequest(router, http.MethodPost, "/api/checkout", nil)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Start checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.cartService.EXPECT().Cart(gomock.Any()).Return(filledCart, nil)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime)
		deps.uuider.EXPECT().Create().Return("c-123")
		deps.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			CheckoutUID: "c-123",
			AmountCents: 2500,
			Currency:    "INR",
		})

		// when
		response := doRequest(router, http.MethodPost, "/api/checkout", nil)

		// then
		assert.Equal(t, 200, response.Code)
		stored, exists, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.True(t, exists)
		assert.Equal(t, StateReview, stored.State)
		assert.Equal(t, int64(2500), stored.TotalCents)
	})

	t.Run("Get checkout not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := doRequest(router, http.MethodGet, "/api/checkout/c-123", nil)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Submit shipping for unknown checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("firstName", "Marc")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-999/shipping", form)

		// then
		assert.Equal(t, 404, response.Code)
		assert.NotContains(t, response.Body.String(), "Last name is required")
	})

	t.Run("Submit shipping with missing fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInReview.UID, checkoutInReview)

		// when
		form := url.Values{}
		form.Set("firstName", "Marc")
		form.Set("email", "not-an-email")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/shipping", form)

		// then
		assert.Equal(t, 400, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Last name is required")
		assert.Contains(t, got, "Enter a valid email")
		assert.Contains(t, got, "Address is required")
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, StateReview, stored.State)
	})

	t.Run("Validate shipping only reports touched fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInReview.UID, checkoutInReview)

		// when
		form := url.Values{}
		form.Set("validateOnly", "true")
		form.Add("touchedFields", "email")
		form.Set("email", "not-an-email")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/shipping", form)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Enter a valid email")
		assert.NotContains(t, got, "First name is required")
	})

	t.Run("Submit shipping", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInReview.UID, checkoutInReview)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/shipping", shippingForm())

		// then
		assert.Equal(t, 200, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, StatePayment, stored.State)
		storedShipping, exists, _ := deps.sessionStore.Get(ctx, "c-123")
		assert.True(t, exists)
		assert.Equal(t, shipping, storedShipping)
	})

	t.Run("Back to review", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInPayment.UID, checkoutInPayment)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/back", nil)

		// then
		assert.Equal(t, 200, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, StateReview, stored.State)
	})

	t.Run("Back after confirmation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		confirmed := checkoutInPayment
		confirmed.State = StateConfirmed
		deps.checkoutStore.Put(ctx, confirmed.UID, confirmed)

		// when
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/back", nil)

		// then
		assert.Equal(t, 409, response.Code)
	})

	t.Run("Apply coupon", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInPayment.UID, checkoutInPayment)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		form := url.Values{}
		form.Set("code", "save10")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/coupon", form)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"DiscountedTotalCents": 2250`)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, "0.1", stored.DiscountFraction)
		assert.Equal(t, "SAVE10", stored.CouponCode)
	})

	t.Run("Apply coupon replaces earlier coupon", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		discounted := checkoutInPayment
		discounted.CouponCode = "WELCOME20"
		discounted.DiscountFraction = "0.2"
		deps.checkoutStore.Put(ctx, discounted.UID, discounted)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		form := url.Values{}
		form.Set("code", "VIP25")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/coupon", form)

		// then
		assert.Equal(t, 200, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, "0.25", stored.DiscountFraction)
	})

	t.Run("Apply invalid coupon keeps earlier coupon", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		discounted := checkoutInPayment
		discounted.CouponCode = "WELCOME20"
		discounted.DiscountFraction = "0.2"
		deps.checkoutStore.Put(ctx, discounted.UID, discounted)

		// when
		form := url.Values{}
		form.Set("code", "BOGUS")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/coupon", form)

		// then
		assert.Equal(t, 400, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, "0.2", stored.DiscountFraction)
		assert.Equal(t, "WELCOME20", stored.CouponCode)
	})

	t.Run("Apply coupon during review step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInReview.UID, checkoutInReview)

		// when
		form := url.Values{}
		form.Set("code", "SAVE10")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/coupon", form)

		// then
		assert.Equal(t, 409, response.Code)
	})

	t.Run("Submit payment with unsupported method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("method", "barter")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/payment", form)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Submit payment with invalid card", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("method", "card")
		form.Set("cardNumber", "1234")
		form.Set("cardName", "M GROL")
		form.Set("expiryDate", "13/2025")
		form.Set("cvv", "12")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/payment", form)

		// then
		assert.Equal(t, 400, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Card number must be 16 digits")
		assert.Contains(t, got, "Format: MM/YY")
		assert.Contains(t, got, "CVV must be 3 digits")
	})

	t.Run("Submit payment while earlier attempt in flight", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		inFlight := checkoutInPayment
		inFlight.PaymentInFlight = true
		deps.checkoutStore.Put(ctx, inFlight.UID, inFlight)
		deps.sessionStore.Put(ctx, inFlight.UID, shipping)
		deps.cartService.EXPECT().Cart(gomock.Any()).Return(filledCart, nil)

		// when
		form := url.Values{}
		form.Set("method", "cod")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/payment", form)

		// then
		assert.Equal(t, 409, response.Code)
	})

	t.Run("Submit payment declined", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		deps.checkoutStore.Put(ctx, checkoutInPayment.UID, checkoutInPayment)
		deps.sessionStore.Put(ctx, checkoutInPayment.UID, shipping)
		deps.cartService.EXPECT().Cart(gomock.Any()).Return(filledCart, nil)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		deps.payer.EXPECT().Authorize(gomock.Any(), AuthorizeRequest{
			Reference:   "c-123",
			AmountCents: 207500,
			Currency:    "INR",
			Method:      "cod",
		}).Return(AuthorizeResponse{Authorized: false, Reason: "declined by acquirer"}, nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:   "c-123",
			PaymentMethod: "cod",
			AmountCents:   207500,
			Currency:      "INR",
			Success:       false,
			Message:       "declined by acquirer",
		})

		// when
		form := url.Values{}
		form.Set("method", "cod")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/payment", form)

		// then
		assert.Equal(t, 402, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, StatePayment, stored.State)
		assert.False(t, stored.PaymentInFlight)
		assert.Empty(t, stored.OrderUID)
	})

	t.Run("Submit payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given
		discounted := checkoutInPayment
		discounted.CouponCode = "SAVE10"
		discounted.DiscountFraction = "0.1"
		deps.checkoutStore.Put(ctx, discounted.UID, discounted)
		deps.sessionStore.Put(ctx, discounted.UID, shipping)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		deps.uuider.EXPECT().Create().Return("order-1")
		deps.payer.EXPECT().Authorize(gomock.Any(), AuthorizeRequest{
			Reference:   "c-123",
			AmountCents: 186750,
			Currency:    "INR",
			Method:      "cod",
		}).Return(AuthorizeResponse{TransactionUID: "TXN-1", Authorized: true}, nil)
		deps.cartService.EXPECT().Cart(gomock.Any()).Return(filledCart, nil)
		deps.cartService.EXPECT().RecordOrder(gomock.Any(), cart.Order{
			UID:              "order-1",
			Items:            filledCart.Items,
			TotalCents:       186750,
			Currency:         "INR",
			Status:           cart.OrderStatusCompleted,
			CreatedAt:        mytime.ExampleTime,
			PaymentMethod:    "Cash on Delivery",
			ShippingInfo:     shipping.AsMap(),
			DiscountFraction: "0.1",
		}).Return(nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:   "c-123",
			OrderUID:      "order-1",
			PaymentMethod: "cod",
			AmountCents:   186750,
			Currency:      "INR",
			Success:       true,
			Message:       "Order placed successfully via Cash on Delivery!",
		})

		// when
		form := url.Values{}
		form.Set("method", "cod")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/payment", form)

		// then
		assert.Equal(t, 200, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, StateConfirmed, stored.State)
		assert.False(t, stored.PaymentInFlight)
		assert.Equal(t, int64(186750), stored.FinalTotalCents)
		assert.Equal(t, "order-1", stored.OrderUID)
		_, shippingKept, _ := deps.sessionStore.Get(ctx, "c-123")
		assert.False(t, shippingKept)
	})

	t.Run("Submit payment prices the cart as it stands", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, deps := setup(t, ctrl)

		// given: the cart has grown since this checkout was opened at 2500
		grownCart := cart.Cart{
			Items: append(append([]cart.Item{}, filledCart.Items...),
				cart.Item{ID: "p3", Name: "USB-C Cable", PriceCents: 1000, Quantity: 1}),
		}
		deps.checkoutStore.Put(ctx, checkoutInPayment.UID, checkoutInPayment)
		deps.sessionStore.Put(ctx, checkoutInPayment.UID, shipping)
		deps.cartService.EXPECT().Cart(gomock.Any()).Return(grownCart, nil)
		deps.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		deps.uuider.EXPECT().Create().Return("order-2")
		deps.payer.EXPECT().Authorize(gomock.Any(), AuthorizeRequest{
			Reference:   "c-123",
			AmountCents: 290500,
			Currency:    "INR",
			Method:      "cod",
		}).Return(AuthorizeResponse{TransactionUID: "TXN-2", Authorized: true}, nil)
		deps.cartService.EXPECT().RecordOrder(gomock.Any(), cart.Order{
			UID:           "order-2",
			Items:         grownCart.Items,
			TotalCents:    290500,
			Currency:      "INR",
			Status:        cart.OrderStatusCompleted,
			CreatedAt:     mytime.ExampleTime,
			PaymentMethod: "Cash on Delivery",
			ShippingInfo:  shipping.AsMap(),
		}).Return(nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			CheckoutUID:   "c-123",
			OrderUID:      "order-2",
			PaymentMethod: "cod",
			AmountCents:   290500,
			Currency:      "INR",
			Success:       true,
			Message:       "Order placed successfully via Cash on Delivery!",
		})

		// when
		form := url.Values{}
		form.Set("method", "cod")
		response := doRequest(router, http.MethodPost, "/api/checkout/c-123/payment", form)

		// then: the charge and the order snapshot both reflect the live cart
		assert.Equal(t, 200, response.Code)
		stored, _, _ := deps.checkoutStore.Get(ctx, "c-123")
		assert.Equal(t, StateConfirmed, stored.State)
		assert.Equal(t, int64(3500), stored.TotalCents)
		assert.Equal(t, int64(290500), stored.FinalTotalCents)
	})
}

func TestSimulatedPayerCancellation(t *testing.T) {
	payer := NewSimulatedPayer(time.Minute, 0)

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	_, err := payer.Authorize(ctx, AuthorizeRequest{Reference: "c-123", AmountCents: 100, Currency: "INR", Method: "cod"})
	assert.ErrorIs(t, err, context.Canceled)
}

func shippingForm() url.Values {
	form := url.Values{}
	form.Set("firstName", shipping.FirstName)
	form.Set("lastName", shipping.LastName)
	form.Set("email", shipping.Email)
	form.Set("address", shipping.Address)
	form.Set("city", shipping.City)
	form.Set("zipCode", shipping.ZipCode)
	form.Set("country", shipping.Country)
	return form
}

func doRequest(router *mux.Router, method string, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	request := httptest.NewRequest(method, target, body)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	return response
}

type testDeps struct {
	checkoutStore mystore.Store[CheckoutContext]
	sessionStore  mystore.Store[ShippingInfo]
	cartService   *MockCartService
	payer         *MockPayer
	nower         *mytime.MockNower
	uuider        *myuuid.MockUUIDer
	publisher     *mypublisher.MockPublisher
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, testDeps) {
	c := context.TODO()

	checkoutStore, _, _ := mystore.NewInMemoryStore[CheckoutContext](c)
	sessionStore, _, _ := mystore.NewInMemoryStore[ShippingInfo](c)
	deps := testDeps{
		checkoutStore: checkoutStore,
		sessionStore:  sessionStore,
		cartService:   NewMockCartService(ctrl),
		payer:         NewMockPayer(ctrl),
		nower:         mytime.NewMockNower(ctrl),
		uuider:        myuuid.NewMockUUIDer(ctrl),
		publisher:     mypublisher.NewMockPublisher(ctrl),
	}

	cfg := Config{
		DisplayCurrency: "INR",
		ConversionRate:  decimal.NewFromInt(83),
	}

	sut := NewService(cfg, deps.checkoutStore, deps.sessionStore, deps.cartService, deps.payer, deps.nower, deps.uuider, mylog.New("checkout"), deps.publisher)
	router := mux.NewRouter()

	// Called by the following call to RegisterEndpoints()
	deps.publisher.EXPECT().CreateTopic(c, checkoutevents.TopicName).Return(nil)

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, deps
}
