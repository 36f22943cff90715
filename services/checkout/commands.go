package checkout

import (
	"context"
	"fmt"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/services/cart"
	"github.com/shopfront/storefront/services/checkout/checkoutevents"
	"github.com/shopfront/storefront/services/coupon"
)

func (s *service) startCheckout(c context.Context) (CheckoutContext, error) {
	currentCart, err := s.cartService.Cart(c)
	if err != nil {
		return CheckoutContext{}, myerrors.NewInternalError(fmt.Errorf("error fetching cart: %s", err))
	}
	if len(currentCart.Items) == 0 {
		return CheckoutContext{}, myerrors.NewInvalidInputErrorf("cannot start checkout with an empty cart")
	}

	now := s.nower.Now()
	checkoutContext := CheckoutContext{
		UID:        s.uuider.Create(),
		State:      StateReview,
		CreatedAt:  now,
		TotalCents: currentCart.TotalCents(),
		Currency:   s.cfg.DisplayCurrency,
	}

	err = s.checkoutStore.Put(c, checkoutContext.UID, checkoutContext)
	if err != nil {
		return CheckoutContext{}, myerrors.NewInternalError(fmt.Errorf("error storing checkout: %s", err))
	}

	s.logger.Log(c, checkoutContext.UID, mylog.SeverityInfo, "Started checkout %s for cart of %d cents", checkoutContext.UID, checkoutContext.TotalCents)

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
		CheckoutUID: checkoutContext.UID,
		AmountCents: checkoutContext.TotalCents,
		Currency:    checkoutContext.Currency,
	})
	if err != nil {
		return CheckoutContext{}, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	return checkoutContext, nil
}

func (s *service) getCheckout(c context.Context, checkoutUID string) (CheckoutContext, error) {
	checkoutContext, found, err := s.checkoutStore.Get(c, checkoutUID)
	if err != nil {
		return CheckoutContext{}, myerrors.NewInternalError(fmt.Errorf("error fetching checkout %s: %s", checkoutUID, err))
	}
	if !found {
		return CheckoutContext{}, myerrors.NewNotFoundError(fmt.Errorf("checkout %s not found", checkoutUID))
	}

	return checkoutContext, nil
}

// validateShipping checks the form without advancing the checkout: only
// errors on fields the shopper has touched are reported back.
func (s *service) validateShipping(c context.Context, checkoutUID string, info ShippingInfo, touchedFields []string) (FieldErrors, error) {
	_, err := s.getCheckout(c, checkoutUID)
	if err != nil {
		return nil, err
	}

	return info.Validate().VisibleFor(touchedFields), nil
}

// submitShipping validates the full form and, when it is clean, stores the
// shipping record and advances the checkout to the payment step.
func (s *service) submitShipping(c context.Context, checkoutUID string, info ShippingInfo) (CheckoutContext, FieldErrors, error) {
	// An unknown checkout is a 404; only an existing one gets its form judged.
	_, err := s.getCheckout(c, checkoutUID)
	if err != nil {
		return CheckoutContext{}, nil, err
	}

	fieldErrors := info.Validate()
	if !fieldErrors.IsEmpty() {
		return CheckoutContext{}, fieldErrors, nil
	}

	var checkoutContext CheckoutContext
	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		checkoutContext, err = s.getCheckout(c, checkoutUID)
		if err != nil {
			return err
		}

		if checkoutContext.State == StateConfirmed {
			return myerrors.NewConflictError(fmt.Errorf("checkout %s is already confirmed", checkoutUID))
		}

		now := s.nower.Now()
		checkoutContext.State = StatePayment
		checkoutContext.LastModified = &now

		return s.checkoutStore.Put(c, checkoutUID, checkoutContext)
	})
	if err != nil {
		return CheckoutContext{}, nil, err
	}

	// The shipping record lives in its own session-scoped store, keyed by
	// checkout, and is removed once the checkout is confirmed.
	err = s.sessionStore.Put(c, checkoutUID, info)
	if err != nil {
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error storing shipping info: %s", err))
	}

	s.logger.Log(c, checkoutUID, mylog.SeverityInfo, "Checkout %s advanced to payment", checkoutUID)

	return checkoutContext, nil, nil
}

// back returns a payment-step checkout to the review step. The shipping
// record is kept so the form comes back pre-filled.
func (s *service) back(c context.Context, checkoutUID string) (CheckoutContext, error) {
	var checkoutContext CheckoutContext
	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		checkoutContext, err = s.getCheckout(c, checkoutUID)
		if err != nil {
			return err
		}

		if checkoutContext.State == StateConfirmed {
			return myerrors.NewConflictError(fmt.Errorf("checkout %s is already confirmed", checkoutUID))
		}
		if checkoutContext.PaymentInFlight {
			return myerrors.NewConflictError(fmt.Errorf("checkout %s has a payment in flight", checkoutUID))
		}

		now := s.nower.Now()
		checkoutContext.State = StateReview
		checkoutContext.LastModified = &now

		return s.checkoutStore.Put(c, checkoutUID, checkoutContext)
	})
	if err != nil {
		return CheckoutContext{}, err
	}

	return checkoutContext, nil
}

// applyCoupon evaluates the code and replaces any previously applied
// discount. An invalid code leaves the existing discount untouched.
func (s *service) applyCoupon(c context.Context, checkoutUID string, code string) (CheckoutContext, error) {
	fraction, evalErr := coupon.Evaluate(code)

	var checkoutContext CheckoutContext
	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		checkoutContext, err = s.getCheckout(c, checkoutUID)
		if err != nil {
			return err
		}

		if checkoutContext.State != StatePayment {
			return myerrors.NewConflictError(fmt.Errorf("checkout %s is not in the payment step", checkoutUID))
		}

		if evalErr != nil {
			return evalErr
		}

		now := s.nower.Now()
		// Stored in canonical form so the code reads the same everywhere,
		// however it was typed in.
		checkoutContext.CouponCode = coupon.Normalize(code)
		checkoutContext.DiscountFraction = fraction.String()
		checkoutContext.LastModified = &now

		return s.checkoutStore.Put(c, checkoutUID, checkoutContext)
	})
	if err != nil {
		return CheckoutContext{}, err
	}

	s.logger.Log(c, checkoutUID, mylog.SeverityInfo, "Applied coupon %s (%s off) to checkout %s", checkoutContext.CouponCode, fraction.String(), checkoutUID)

	return checkoutContext, nil
}

// submitPayment authorizes the charge and, on success, commits the order
// and confirms the checkout. The in-flight marker is claimed in its own
// transaction so a double submit observes a conflict instead of a double
// charge.
func (s *service) submitPayment(c context.Context, checkoutUID string, method string, card CardDetails) (CheckoutContext, FieldErrors, error) {
	if !isSupportedMethod(method) {
		return CheckoutContext{}, nil, myerrors.NewInvalidInputErrorf("unsupported payment method %q", method)
	}
	if method == MethodCard {
		fieldErrors := card.Validate()
		if !fieldErrors.IsEmpty() {
			return CheckoutContext{}, fieldErrors, nil
		}
	}

	shippingInfo, found, err := s.sessionStore.Get(c, checkoutUID)
	if err != nil {
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error fetching shipping info: %s", err))
	}
	if !found {
		return CheckoutContext{}, nil, myerrors.NewInvalidInputErrorf("checkout %s has no shipping info", checkoutUID)
	}

	// The charge is always priced from the cart as it is NOW: the total
	// captured at checkout start is stale once the cart has been touched.
	currentCart, err := s.cartService.Cart(c)
	if err != nil {
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error fetching cart: %s", err))
	}
	if len(currentCart.Items) == 0 {
		return CheckoutContext{}, nil, myerrors.NewInvalidInputErrorf("cannot pay for an empty cart")
	}

	checkoutContext, err := s.claimPayment(c, checkoutUID, method, currentCart.TotalCents())
	if err != nil {
		return CheckoutContext{}, nil, err
	}

	amountCents := chargeCents(checkoutContext.TotalCents, s.cfg.ConversionRate, checkoutContext.Discount())

	// The acquirer round-trip happens outside any transaction: it is slow
	// and must not hold locks.
	resp, err := s.payer.Authorize(c, AuthorizeRequest{
		Reference:   checkoutUID,
		AmountCents: amountCents,
		Currency:    checkoutContext.Currency,
		Method:      method,
	})
	if err != nil {
		releaseErr := s.releasePayment(c, checkoutUID)
		if releaseErr != nil {
			s.logger.Log(c, checkoutUID, mylog.SeverityError, "Error releasing payment claim on %s: %s", checkoutUID, releaseErr)
		}
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error authorizing payment: %s", err))
	}

	if !resp.Authorized {
		return s.onPaymentDeclined(c, checkoutUID, method, amountCents, resp)
	}

	return s.onPaymentAuthorized(c, checkoutUID, method, amountCents, currentCart.Items, shippingInfo, resp)
}

// claimPayment flips the in-flight marker and refreshes the total to the
// live cart. Run in a transaction: the read-check-write must be atomic
// towards a concurrent submit.
func (s *service) claimPayment(c context.Context, checkoutUID string, method string, totalCents int64) (CheckoutContext, error) {
	var checkoutContext CheckoutContext
	err := s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		checkoutContext, err = s.getCheckout(c, checkoutUID)
		if err != nil {
			return err
		}

		if checkoutContext.State != StatePayment {
			return myerrors.NewConflictError(fmt.Errorf("checkout %s is not in the payment step", checkoutUID))
		}
		if checkoutContext.PaymentInFlight {
			return myerrors.NewConflictError(fmt.Errorf("payment for checkout %s is already in flight", checkoutUID))
		}

		now := s.nower.Now()
		checkoutContext.PaymentInFlight = true
		checkoutContext.PaymentMethod = method
		checkoutContext.TotalCents = totalCents
		checkoutContext.LastModified = &now

		return s.checkoutStore.Put(c, checkoutUID, checkoutContext)
	})
	if err != nil {
		return CheckoutContext{}, err
	}

	return checkoutContext, nil
}

func (s *service) releasePayment(c context.Context, checkoutUID string) error {
	return s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		checkoutContext, err := s.getCheckout(c, checkoutUID)
		if err != nil {
			return err
		}

		now := s.nower.Now()
		checkoutContext.PaymentInFlight = false
		checkoutContext.LastModified = &now

		return s.checkoutStore.Put(c, checkoutUID, checkoutContext)
	})
}

func (s *service) onPaymentDeclined(c context.Context, checkoutUID string, method string, amountCents int64, resp AuthorizeResponse) (CheckoutContext, FieldErrors, error) {
	s.logger.Log(c, checkoutUID, mylog.SeverityWarn, "Payment for checkout %s declined: %s", checkoutUID, resp.Reason)

	err := s.releasePayment(c, checkoutUID)
	if err != nil {
		return CheckoutContext{}, nil, err
	}

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
		CheckoutUID:   checkoutUID,
		PaymentMethod: method,
		AmountCents:   amountCents,
		Currency:      s.cfg.DisplayCurrency,
		Success:       false,
		Message:       resp.Reason,
	})
	if err != nil {
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	return CheckoutContext{}, nil, myerrors.NewPaymentDeclinedError(fmt.Errorf("payment declined: %s", resp.Reason))
}

func (s *service) onPaymentAuthorized(c context.Context, checkoutUID string, method string, amountCents int64, items []cart.Item, shippingInfo ShippingInfo, resp AuthorizeResponse) (CheckoutContext, FieldErrors, error) {
	checkoutContext, err := s.getCheckout(c, checkoutUID)
	if err != nil {
		return CheckoutContext{}, nil, err
	}

	now := s.nower.Now()
	order := cart.Order{
		UID:              s.uuider.Create(),
		Items:            items,
		TotalCents:       amountCents,
		Currency:         checkoutContext.Currency,
		Status:           cart.OrderStatusCompleted,
		CreatedAt:        now,
		PaymentMethod:    MethodLabel(method),
		ShippingInfo:     shippingInfo.AsMap(),
		DiscountFraction: checkoutContext.DiscountFraction,
	}

	// The order commit also clears the cart.
	err = s.cartService.RecordOrder(c, order)
	if err != nil {
		releaseErr := s.releasePayment(c, checkoutUID)
		if releaseErr != nil {
			s.logger.Log(c, checkoutUID, mylog.SeverityError, "Error releasing payment claim on %s: %s", checkoutUID, releaseErr)
		}
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error recording order: %s", err))
	}

	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		checkoutContext, err = s.getCheckout(c, checkoutUID)
		if err != nil {
			return err
		}

		checkoutContext.State = StateConfirmed
		checkoutContext.PaymentInFlight = false
		checkoutContext.FinalTotalCents = amountCents
		checkoutContext.OrderUID = order.UID
		checkoutContext.LastModified = &now

		return s.checkoutStore.Put(c, checkoutUID, checkoutContext)
	})
	if err != nil {
		return CheckoutContext{}, nil, err
	}

	// The shipping handoff has served its purpose once the checkout is
	// confirmed.
	err = s.sessionStore.Remove(c, checkoutUID)
	if err != nil {
		s.logger.Log(c, checkoutUID, mylog.SeverityWarn, "Error removing shipping info of %s: %s", checkoutUID, err)
	}

	s.logger.Log(c, checkoutUID, mylog.SeverityInfo, "Checkout %s confirmed with order %s (txn %s)", checkoutUID, order.UID, resp.TransactionUID)

	err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
		CheckoutUID:   checkoutUID,
		OrderUID:      order.UID,
		PaymentMethod: method,
		AmountCents:   amountCents,
		Currency:      checkoutContext.Currency,
		Success:       true,
		Message:       fmt.Sprintf("Order placed successfully via %s!", MethodLabel(method)),
	})
	if err != nil {
		return CheckoutContext{}, nil, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	return checkoutContext, nil, nil
}
