package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
)

func TestAuthService(t *testing.T) {

	t.Run("Login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, userStore, nower := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		form := url.Values{}
		form.Set("email", "marc@example.com")
		form.Set("password", "secret123")
		response := doRequest(router, "/api/login", form)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, `"email": "marc@example.com"`)
		assert.Contains(t, got, `"name": "marc"`)
		user, exists, _ := userStore.Get(ctx, "user")
		assert.True(t, exists)
		assert.Equal(t, "marc", user.Name)
	})

	t.Run("Login without password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("email", "marc@example.com")
		response := doRequest(router, "/api/login", form)

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "Email and password required")
	})

	t.Run("Login with short password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("email", "marc@example.com")
		form.Set("password", "short")
		response := doRequest(router, "/api/login", form)

		// then
		assert.Equal(t, 401, response.Code)
		assert.Contains(t, response.Body.String(), "Invalid credentials")
	})

	t.Run("Signup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, userStore, nower := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		form := url.Values{}
		form.Set("name", "Marc Grol")
		form.Set("email", "marc@example.com")
		form.Set("password", "secret123")
		response := doRequest(router, "/api/signup", form)

		// then
		assert.Equal(t, 200, response.Code)
		user, exists, _ := userStore.Get(ctx, "user")
		assert.True(t, exists)
		assert.Equal(t, "Marc Grol", user.Name)
	})

	t.Run("Signup with missing fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("email", "marc@example.com")
		form.Set("password", "secret123")
		response := doRequest(router, "/api/signup", form)

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "All fields required")
	})

	t.Run("Signup with short password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		form := url.Values{}
		form.Set("name", "Marc Grol")
		form.Set("email", "marc@example.com")
		form.Set("password", "short")
		response := doRequest(router, "/api/signup", form)

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "Password must be at least 6 characters")
	})

	t.Run("Get current user when not signed in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _ := setup(t, ctrl)

		// when
		request := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 401, response.Code)
	})

	t.Run("Logout removes the user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, userStore, _ := setup(t, ctrl)

		// given
		userStore.Put(ctx, "user", User{ID: "user_1", Email: "marc@example.com", Name: "marc"})

		// when
		response := doRequest(router, "/api/logout", nil)

		// then
		assert.Equal(t, 200, response.Code)
		_, exists, _ := userStore.Get(ctx, "user")
		assert.False(t, exists)
	})
}

func doRequest(router *mux.Router, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	request := httptest.NewRequest(http.MethodPost, target, body)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	return response
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[User], *mytime.MockNower) {
	c := context.TODO()

	userStore, _, _ := mystore.NewInMemoryStore[User](c)
	nower := mytime.NewMockNower(ctrl)

	// Zero delay keeps the tests fast, the latency is covered separately.
	sut := NewService(userStore, 0*time.Second, nower, mylog.New("auth"))
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, userStore, nower
}

func TestSimulatedRoundTripCancellation(t *testing.T) {
	svc := newService(nil, time.Minute, nil, mylog.New("auth"))

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	err := svc.simulateRoundTrip(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
