// Package coupon maps submitted coupon codes onto discount fractions.
package coupon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront/lib/myerrors"
)

// Fixed registry: no expiry, no stacking. Codes are matched
// case-insensitively.
var registry = map[string]decimal.Decimal{
	"WELCOME20": decimal.NewFromFloat(0.20),
	"SAVE10":    decimal.NewFromFloat(0.10),
	"SUMMER15":  decimal.NewFromFloat(0.15),
	"VIP25":     decimal.NewFromFloat(0.25),
}

// Normalize maps a submitted code onto its canonical registry form.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate normalizes the code and looks it up. A miss yields a
// recoverable invalid-coupon error and no discount.
func Evaluate(code string) (decimal.Decimal, error) {
	fraction, found := registry[Normalize(code)]
	if !found {
		return decimal.Zero, myerrors.NewInvalidInputErrorf("invalid coupon code %q", code)
	}

	return fraction, nil
}
