package wishlist

import (
	"context"
	"sort"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/mylog"
	"github.com/shopfront/storefront/lib/mypubsub"
	"github.com/shopfront/storefront/lib/mystore"
)

type service struct {
	wishlistStore mystore.Store[Entry]
	subscriber    mypubsub.PubSub
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(wishlistStore mystore.Store[Entry], subscriber mypubsub.PubSub, logger mylog.Logger) *service {
	return &service{
		wishlistStore: wishlistStore,
		subscriber:    subscriber,
		logger:        logger,
	}
}

func (s *service) list(c context.Context) ([]Entry, error) {
	entries, err := s.wishlistStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// add is idempotent: saving a product that is already on the wishlist just
// overwrites the same entry.
func (s *service) add(c context.Context, entry Entry) error {
	if entry.ID == "" {
		return myerrors.NewInvalidInputErrorf("wishlist entry without id")
	}

	s.logger.Log(c, entry.ID, mylog.SeverityInfo, "Add %s to wishlist", entry.Name)

	err := s.wishlistStore.Put(c, entry.ID, entry)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func (s *service) remove(c context.Context, productID string) error {
	s.logger.Log(c, productID, mylog.SeverityInfo, "Remove %s from wishlist", productID)

	err := s.wishlistStore.Remove(c, productID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}
