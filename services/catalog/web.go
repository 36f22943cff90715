package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/shopfront/storefront/lib/mycontext"
	"github.com/shopfront/storefront/lib/myhttp"
	"github.com/shopfront/storefront/lib/mylog"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

func NewService(logger mylog.Logger) *webService {
	return &webService{
		service: newService(logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/products", s.listProductsPage()).Methods("GET")
	router.HandleFunc("/api/products/{productID}", s.productDetailsPage()).Methods("GET")
}

func (s *webService) listProductsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		query := Query{
			Search:     r.URL.Query().Get("q"),
			SortBy:     r.URL.Query().Get("sort"),
			Descending: r.URL.Query().Get("order") == "desc",
		}
		if maxPrice := r.URL.Query().Get("maxPrice"); maxPrice != "" {
			query.MaxPriceCents, _ = strconv.ParseInt(maxPrice, 10, 64)
		}
		if minRating := r.URL.Query().Get("minRating"); minRating != "" {
			query.MinRating, _ = strconv.ParseFloat(minRating, 64)
		}

		responseWriter.Write(c, w, http.StatusOK, s.service.listProducts(c, query))
	}
}

func (s *webService) productDetailsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		productID := mux.Vars(r)["productID"]

		product, err := s.service.getProduct(c, productID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, product)
	}
}
