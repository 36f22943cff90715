package wishlist

import (
	"context"
	"fmt"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/myhttp"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/services/cart/cartevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, cartevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/wishlist/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

// A purchased product no longer belongs on the wishlist.
func (s *service) OnOrderRecorded(c context.Context, topic string, event cartevents.OrderRecorded) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Order %s recorded, pruning wishlist", event.OrderUID)

	for _, productID := range event.ProductIDs {
		err := s.wishlistStore.Remove(c, productID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
	}

	return nil
}
