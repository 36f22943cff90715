package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/services/cart/cartevents"
)

func (s *service) getCart(c context.Context) (Cart, error) {
	cart, _, err := s.cartStore.Get(c, activeCartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}

	return cart, nil
}

func (s *service) addItem(c context.Context, item Item) (Cart, error) {
	if item.ID == "" || item.Quantity < 1 || item.PriceCents < 0 {
		return Cart{}, myerrors.NewInvalidInputErrorf("invalid cart item %+v", item)
	}

	s.logger.Log(c, item.ID, mylog.SeverityInfo, "Add %d x %s to cart", item.Quantity, item.Name)

	return s.mutate(c, func(cart Cart) Cart {
		return withItem(cart, item)
	})
}

func (s *service) updateQuantity(c context.Context, itemID string, quantity int) (Cart, error) {
	s.logger.Log(c, itemID, mylog.SeverityInfo, "Set quantity of %s to %d", itemID, quantity)

	return s.mutate(c, func(cart Cart) Cart {
		return withQuantity(cart, itemID, quantity)
	})
}

func (s *service) removeItem(c context.Context, itemID string) (Cart, error) {
	s.logger.Log(c, itemID, mylog.SeverityInfo, "Remove %s from cart", itemID)

	return s.mutate(c, func(cart Cart) Cart {
		return withoutItem(cart, itemID)
	})
}

func (s *service) clearCart(c context.Context) (Cart, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Clear cart")

	return s.mutate(c, cleared)
}

// mutate applies a pure state transition to the active cart and then
// writes the result through to the durable store.
func (s *service) mutate(c context.Context, f func(cart Cart) Cart) (Cart, error) {
	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, _, err = s.cartStore.Get(c, activeCartUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		cart = f(cart)
		cart.LastModified = &now

		err = s.cartStore.Put(c, activeCartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func (s *service) listOrders(c context.Context) ([]Order, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch order history")

	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// recordOrder appends the order to the history and clears the cart in one
// commit: a checkout that produced an order always leaves an empty cart.
func (s *service) recordOrder(c context.Context, order Order) error {
	if order.UID == "" {
		return myerrors.NewInvalidInputErrorf("order without uid")
	}

	s.logger.Log(c, order.UID, mylog.SeverityInfo, "Record order %s (%d cents %s via %s)",
		order.UID, order.TotalCents, order.Currency, order.PaymentMethod)

	now := s.nower.Now()

	// snapshot semantics: the order must not alias live cart lines
	order.Items = append([]Item{}, order.Items...)

	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		_, exists, err := s.orderStore.Get(c, order.UID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if exists {
			return myerrors.NewConflictError(fmt.Errorf("order with uid %s already recorded", order.UID))
		}

		err = s.orderStore.Put(c, order.UID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		productIDs := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ID)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.OrderRecorded{
			OrderUID:      order.UID,
			ProductIDs:    productIDs,
			TotalCents:    order.TotalCents,
			Currency:      order.Currency,
			PaymentMethod: order.PaymentMethod,
			Message:       fmt.Sprintf("Order placed successfully via %s!", order.PaymentMethod),
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// cart and orders are independent keys: no multi-key atomicity, the
	// order is durable before the cart is emptied
	err = s.cartStore.Put(c, activeCartUID, Cart{Items: []Item{}, LastModified: &now})
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}
