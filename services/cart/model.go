package cart

import (
	"fmt"
	"strings"
	"time"
)

// Item is one cart line. There is at most one line per product id.
type Item struct {
	ID         string `form:"id"`
	Name       string `form:"name"`
	PriceCents int64  `form:"priceCents"`
	Quantity   int    `form:"quantity"`
	Image      string `form:"image"`
}

func (i Item) SubtotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// Cart holds the lines a shopper intends to buy, not yet committed to an order.
type Cart struct {
	Items        []Item
	LastModified *time.Time
}

func (c Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.SubtotalCents()
	}
	return total
}

func (c Cart) Summary() string {
	lines := []string{}
	for _, item := range c.Items {
		lines = append(lines, fmt.Sprintf("%d x %s", item.Quantity, item.Name))
	}
	return strings.Join(lines, ", ")
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is an immutable record of a completed purchase: a snapshot of the
// cart at commit time. Only Status is conceptually mutable and in practice
// it is set once, to completed, on successful payment.
type Order struct {
	UID              string
	Items            []Item
	TotalCents       int64
	Currency         string
	Status           OrderStatus
	CreatedAt        time.Time
	PaymentMethod    string
	ShippingInfo     map[string]string
	DiscountFraction string
}

func (o Order) Timestamp() string {
	return o.CreatedAt.Format("2006-01-02 15:04:05")
}
