package engagement

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
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(newsletterDelay time.Duration, contactDelay time.Duration, logger mylog.Logger) *webService {
	return &webService{
		service: newService(newsletterDelay, contactDelay, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/newsletter", s.newsletterPage()).Methods("POST")
	router.HandleFunc("/api/contact", s.contactPage()).Methods("POST")
}

func (s *webService) newsletterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		signup := NewsletterSignup{}
		err := parseForm(r, &signup)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		confirmation, err := s.service.subscribe(c, signup)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, confirmation)
	}
}

func (s *webService) contactPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		msg := ContactMessage{}
		err := parseForm(r, &msg)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		confirmation, err := s.service.submitContact(c, msg)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, confirmation)
	}
}

func parseForm(r *http.Request, target interface{}) error {
	err := r.ParseForm()
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	err = formcodec.NewDecoder().Decode(target, r.Form)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	return nil
}
