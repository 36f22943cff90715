package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/mylog"
)

// Query narrows and orders the catalog listing. Zero values leave the
// corresponding dimension unfiltered.
type Query struct {
	Search        string
	MaxPriceCents int64
	MinRating     float64
	SortBy        string // "price" or "rating"
	Descending    bool
}

type service struct {
	logger mylog.Logger
}

func newService(logger mylog.Logger) *service {
	return &service{
		logger: logger,
	}
}

func (s *service) listProducts(c context.Context, q Query) []Product {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch products (search=%q)", q.Search)

	result := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.MaxPriceCents > 0 && p.PriceCents > q.MaxPriceCents {
			continue
		}
		if q.MinRating > 0 && p.Rating < q.MinRating {
			continue
		}
		result = append(result, p)
	}

	switch q.SortBy {
	case "price":
		sort.SliceStable(result, func(i, j int) bool {
			if q.Descending {
				return result[i].PriceCents > result[j].PriceCents
			}
			return result[i].PriceCents < result[j].PriceCents
		})
	case "rating":
		sort.SliceStable(result, func(i, j int) bool {
			if q.Descending {
				return result[i].Rating > result[j].Rating
			}
			return result[i].Rating < result[j].Rating
		})
	}

	return result
}

func (s *service) getProduct(c context.Context, productID string) (Product, error) {
	for _, p := range products {
		if p.ID == productID {
			return p, nil
		}
	}

	return Product{}, myerrors.NewNotFoundError(fmt.Errorf("product with id %s not found", productID))
}
