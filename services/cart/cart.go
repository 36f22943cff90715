package cart

// Pure cart state transitions. Persistence is applied by the service as a
// separate step after each of these, so the math is testable on its own.

// withItem merges the incoming line into the cart: an existing line with the
// same id has its quantity incremented, otherwise the line is appended.
func withItem(c Cart, item Item) Cart {
	for i, existing := range c.Items {
		if existing.ID == item.ID {
			existing.Quantity += item.Quantity
			c.Items[i] = existing
			return c
		}
	}

	c.Items = append(c.Items, item)
	return c
}

// withoutItem drops the line with the given id. Absent ids are a no-op.
func withoutItem(c Cart, itemID string) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, existing := range c.Items {
		if existing.ID != itemID {
			items = append(items, existing)
		}
	}
	c.Items = items
	return c
}

// withQuantity sets a line's quantity to an absolute value. A quantity of
// zero or less removes the line.
func withQuantity(c Cart, itemID string, quantity int) Cart {
	if quantity <= 0 {
		return withoutItem(c, itemID)
	}

	for i, existing := range c.Items {
		if existing.ID == itemID {
			existing.Quantity = quantity
			c.Items[i] = existing
			return c
		}
	}
	return c
}

func cleared(c Cart) Cart {
	c.Items = []Item{}
	return c
}
