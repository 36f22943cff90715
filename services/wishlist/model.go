package wishlist

// Entry is a saved product reference: enough to render the wishlist and to
// move the product into the cart without a catalog round-trip.
type Entry struct {
	ID         string `form:"id" json:"id"`
	Name       string `form:"name" json:"name"`
	PriceCents int64  `form:"priceCents" json:"priceCents"`
	Image      string `form:"image" json:"image"`
}
