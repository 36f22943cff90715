package catalog

// Product is a read-only catalog record. The cart only ever consumes
// id/name/price/image from it.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
	Image      string
	Rating     float64
}
