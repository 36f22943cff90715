package checkout

import (
	"context"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/shopfront/storefront/lib/mycontext"
	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/myhttp"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypublisher"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
	"github.com/shopfront/storefront/lib/myuuid"
	"github.com/shopfront/storefront/services/checkout/checkoutevents"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(cfg Config, checkoutStore mystore.Store[CheckoutContext], sessionStore mystore.Store[ShippingInfo], cartService CartService, payer Payer, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *webService {
	return &webService{
		service: newService(cfg, checkoutStore, sessionStore, cartService, payer, nower, uuider, logger, pub),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return err
	}

	router.HandleFunc("/api/checkout", s.startCheckoutPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{checkoutUID}", s.checkoutPage()).Methods("GET")
	router.HandleFunc("/api/checkout/{checkoutUID}/shipping", s.shippingPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{checkoutUID}/back", s.backPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{checkoutUID}/coupon", s.couponPage()).Methods("POST")
	router.HandleFunc("/api/checkout/{checkoutUID}/payment", s.paymentPage()).Methods("POST")

	return nil
}

type checkoutResponse struct {
	Checkout             CheckoutContext
	DiscountedTotalCents int64
	FieldErrors          FieldErrors `json:",omitempty"`
}

// newCheckoutResponse decorates the checkout with its coupon-adjusted cart
// total, so clients can render the discount without redoing the math.
func newCheckoutResponse(checkoutContext CheckoutContext) checkoutResponse {
	return checkoutResponse{
		Checkout:             checkoutContext,
		DiscountedTotalCents: discountedCents(checkoutContext.TotalCents, checkoutContext.Discount()),
	}
}

func (s *webService) startCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		checkoutContext, err := s.service.startCheckout(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutResponse(checkoutContext))
	}
}

func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		checkoutUID := mux.Vars(r)["checkoutUID"]

		checkoutContext, err := s.service.getCheckout(c, checkoutUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutResponse(checkoutContext))
	}
}

func (s *webService) shippingPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		checkoutUID := mux.Vars(r)["checkoutUID"]

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		info := ShippingInfo{}
		err = formcodec.NewDecoder().Decode(&info, r.Form)
		if err != nil {
			responseWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		// A validate-only request reports errors for touched fields without
		// advancing the checkout: this backs the inline form feedback.
		if r.Form.Get("validateOnly") == "true" {
			fieldErrors, err := s.service.validateShipping(c, checkoutUID, info, r.Form["touchedFields"])
			if err != nil {
				responseWriter.WriteError(c, w, 3, err)
				return
			}
			responseWriter.Write(c, w, http.StatusOK, checkoutResponse{FieldErrors: fieldErrors})
			return
		}

		checkoutContext, fieldErrors, err := s.service.submitShipping(c, checkoutUID, info)
		if err != nil {
			responseWriter.WriteError(c, w, 4, err)
			return
		}
		if !fieldErrors.IsEmpty() {
			responseWriter.Write(c, w, http.StatusBadRequest, checkoutResponse{FieldErrors: fieldErrors})
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutResponse(checkoutContext))
	}
}

func (s *webService) backPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		checkoutUID := mux.Vars(r)["checkoutUID"]

		checkoutContext, err := s.service.back(c, checkoutUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutResponse(checkoutContext))
	}
}

func (s *webService) couponPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		checkoutUID := mux.Vars(r)["checkoutUID"]

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		checkoutContext, err := s.service.applyCoupon(c, checkoutUID, r.Form.Get("code"))
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutResponse(checkoutContext))
	}
}

func (s *webService) paymentPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		checkoutUID := mux.Vars(r)["checkoutUID"]

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		card := CardDetails{}
		err = formcodec.NewDecoder().Decode(&card, r.Form)
		if err != nil {
			responseWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		checkoutContext, fieldErrors, err := s.service.submitPayment(c, checkoutUID, r.Form.Get("method"), card)
		if err != nil {
			responseWriter.WriteError(c, w, 3, err)
			return
		}
		if !fieldErrors.IsEmpty() {
			responseWriter.Write(c, w, http.StatusBadRequest, checkoutResponse{FieldErrors: fieldErrors})
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCheckoutResponse(checkoutContext))
	}
}
