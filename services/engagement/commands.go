package engagement

import (
	"context"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/mylog"
)

func (s *service) subscribe(c context.Context, signup NewsletterSignup) (Confirmation, error) {
	if signup.Email == "" {
		return Confirmation{}, myerrors.NewInvalidInputErrorf("Email is required")
	}

	err := s.simulateRoundTrip(c, s.newsletterDelay)
	if err != nil {
		return Confirmation{}, myerrors.NewInternalError(err)
	}

	s.logger.Log(c, signup.Email, mylog.SeverityInfo, "Newsletter signup for %s", signup.Email)

	return Confirmation{Message: "Successfully subscribed to our newsletter!"}, nil
}

func (s *service) submitContact(c context.Context, msg ContactMessage) (Confirmation, error) {
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return Confirmation{}, myerrors.NewInvalidInputErrorf("Please fill all required fields")
	}

	err := s.simulateRoundTrip(c, s.contactDelay)
	if err != nil {
		return Confirmation{}, myerrors.NewInternalError(err)
	}

	s.logger.Log(c, msg.Email, mylog.SeverityInfo, "Contact message from %s (%s)", msg.Name, msg.Email)

	return Confirmation{Message: "Message sent successfully! We'll get back to you soon."}, nil
}
