package auth

import (
	"context"
	"net/http"
	"time"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/shopfront/storefront/lib/mycontext"
	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/myhttp"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mystore"
	"github.com/shopfront/storefront/lib/mytime"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(userStore mystore.Store[User], loginDelay time.Duration, nower mytime.Nower, logger mylog.Logger) *webService {
	return &webService{
		service: newService(userStore, loginDelay, nower, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/login", s.loginPage()).Methods("POST")
	router.HandleFunc("/api/signup", s.signupPage()).Methods("POST")
	router.HandleFunc("/api/logout", s.logoutPage()).Methods("POST")
	router.HandleFunc("/api/user", s.userPage()).Methods("GET")
}

func (s *webService) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		creds, err := parseCredentials(r)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		user, err := s.service.login(c, creds)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, user)
	}
}

func (s *webService) signupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		creds, err := parseCredentials(r)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		user, err := s.service.signup(c, creds)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, user)
	}
}

func (s *webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		err := s.service.logout(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{Message: "Logged out"})
	}
}

func (s *webService) userPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		user, err := s.service.currentUser(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, user)
	}
}

func parseCredentials(r *http.Request) (credentials, error) {
	err := r.ParseForm()
	if err != nil {
		return credentials{}, myerrors.NewInvalidInputError(err)
	}

	creds := credentials{}
	err = formcodec.NewDecoder().Decode(&creds, r.Form)
	if err != nil {
		return credentials{}, myerrors.NewInvalidInputError(err)
	}

	return creds, nil
}
