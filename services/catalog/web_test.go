package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/shopfront/storefront/lib/mylog"
)

func TestCatalogService(t *testing.T) {

	t.Run("List all products", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products")

		// then
		assert.Equal(t, 200, response.Code)
		got := decodeProducts(t, response)
		assert.Len(t, got, 24)
	})

	t.Run("Search by name", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products?q=wireless")

		// then
		got := decodeProducts(t, response)
		assert.Len(t, got, 3)
		for _, p := range got {
			assert.Contains(t, p.Name, "Wireless")
		}
	})

	t.Run("Filter on max price and min rating", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products?maxPrice=2000&minRating=4.5")

		// then
		got := decodeProducts(t, response)
		assert.NotEmpty(t, got)
		for _, p := range got {
			assert.LessOrEqual(t, p.PriceCents, int64(2000))
			assert.GreaterOrEqual(t, p.Rating, 4.5)
		}
	})

	t.Run("Sort on price ascending", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products?sort=price")

		// then
		got := decodeProducts(t, response)
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].PriceCents, got[i].PriceCents)
		}
	})

	t.Run("Sort on rating descending", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products?sort=rating&order=desc")

		// then
		got := decodeProducts(t, response)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Rating, got[i].Rating)
		}
	})

	t.Run("Get product", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products/2")

		// then
		assert.Equal(t, 200, response.Code)
		product := Product{}
		err := json.Unmarshal(response.Body.Bytes(), &product)
		assert.NoError(t, err)
		assert.Equal(t, "Smart Watch", product.Name)
		assert.Equal(t, int64(19999), product.PriceCents)
	})

	t.Run("Get product not exists", func(t *testing.T) {
		// setup
		router := setup(t)

		// when
		response := doRequest(router, "/api/products/999")

		// then
		assert.Equal(t, 404, response.Code)
	})
}

func decodeProducts(t *testing.T, response *httptest.ResponseRecorder) []Product {
	got := []Product{}
	err := json.Unmarshal(response.Body.Bytes(), &got)
	assert.NoError(t, err)
	return got
}

func doRequest(router *mux.Router, target string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setup(t *testing.T) *mux.Router {
	sut := NewService(mylog.New("catalog"))
	router := mux.NewRouter()
	sut.RegisterEndpoints(context.TODO(), router)
	return router
}
