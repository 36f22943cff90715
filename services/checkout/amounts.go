package checkout

import "github.com/shopspring/decimal"

// discountedCents applies the coupon fraction to the cart total, still in
// the catalog currency.
func discountedCents(totalCents int64, discount decimal.Decimal) int64 {
	return decimal.NewFromInt(totalCents).
		Mul(decimal.NewFromInt(1).Sub(discount)).
		Round(0).
		IntPart()
}

// chargeCents is the amount the shopper actually pays: cart total converted
// to the display currency, with the coupon discount applied.
func chargeCents(totalCents int64, conversionRate decimal.Decimal, discount decimal.Decimal) int64 {
	return decimal.NewFromInt(totalCents).
		Mul(conversionRate).
		Mul(decimal.NewFromInt(1).Sub(discount)).
		Round(0).
		IntPart()
}
