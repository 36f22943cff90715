package cart

import (
	"context"
	"net/http"
	"strconv"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/shopfront/storefront/lib/mycontext"
	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/myhttp"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypublisher"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
	"github.com/shopfront/storefront/services/cart/cartevents"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(cartStore mystore.Store[Cart], orderStore mystore.Store[Order], nower mytime.Nower, logger mylog.Logger, pub mypublisher.Publisher) *webService {
	return &webService{
		service: newService(cartStore, orderStore, nower, logger, pub),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return err
	}

	router.HandleFunc("/api/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/api/cart", s.clearCartPage()).Methods("DELETE")
	router.HandleFunc("/api/cart/items", s.addItemPage()).Methods("POST")
	router.HandleFunc("/api/cart/items/{itemID}", s.updateQuantityPage()).Methods("PUT")
	router.HandleFunc("/api/cart/items/{itemID}", s.removeItemPage()).Methods("DELETE")
	router.HandleFunc("/api/orders", s.orderListPage()).Methods("GET")

	return nil
}

// Cart exposes the current cart to collaborating services (checkout reads
// it to compute the charge).
func (s *webService) Cart(c context.Context) (Cart, error) {
	return s.service.getCart(c)
}

// RecordOrder commits an order into the history and clears the cart.
func (s *webService) RecordOrder(c context.Context, order Order) error {
	return s.service.recordOrder(c, order)
}

type cartResponse struct {
	Items      []Item
	TotalCents int64
}

func newCartResponse(cart Cart) cartResponse {
	return cartResponse{
		Items:      cart.Items,
		TotalCents: cart.TotalCents(),
	}
}

func (s *webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartResponse(cart))
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		item := Item{}
		err = formcodec.NewDecoder().Decode(&item, r.Form)
		if err != nil {
			responseWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		cart, err := s.service.addItem(c, item)
		if err != nil {
			responseWriter.WriteError(c, w, 3, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartResponse(cart))
	}
}

func (s *webService) updateQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		itemID := mux.Vars(r)["itemID"]

		err := r.ParseForm()
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		quantity, err := strconv.Atoi(r.Form.Get("quantity"))
		if err != nil {
			responseWriter.WriteError(c, w, 2, myerrors.NewInvalidInputErrorf("invalid quantity %q", r.Form.Get("quantity")))
			return
		}

		cart, err := s.service.updateQuantity(c, itemID, quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 3, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartResponse(cart))
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		itemID := mux.Vars(r)["itemID"]

		cart, err := s.service.removeItem(c, itemID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartResponse(cart))
	}
}

func (s *webService) clearCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.clearCart(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, newCartResponse(cart))
	}
}

func (s *webService) orderListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, orders)
	}
}
