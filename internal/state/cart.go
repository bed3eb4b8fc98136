package state

import "github.com/shopspring/decimal"

// LineItem is one product entry in the cart, keyed by product id, holding an
// aggregated quantity.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Cart is the client cart state container. Lines keep insertion order and
// there is at most one line per product id; a line never sits at quantity 0.
//
// totalCount tracks the number of add/remove operations applied, not the sum
// of line quantities. The asymmetry is inherited behavior and is kept on
// purpose; see the package tests that pin it.
type Cart struct {
	items      []LineItem
	totalPrice decimal.Decimal
	totalCount int
}

// CartSnapshot is the serializable image of a cart.
type CartSnapshot struct {
	Items      []LineItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	TotalCount int             `json:"totalCount"`
}

func NewCart() *Cart {
	return &Cart{totalPrice: decimal.Zero}
}

// AddItem merges the incoming line into the cart. An existing line's quantity
// grows by the incoming quantity; otherwise the line is appended. totalPrice
// grows by the unit price and totalCount by exactly one regardless of the
// incoming quantity. Malformed input (blank id, quantity < 1, negative price)
// is a no-op.
func (c *Cart) AddItem(item LineItem) {
	if item.ID == "" || item.Quantity < 1 || item.Price.IsNegative() {
		return
	}

	c.totalPrice = c.totalPrice.Add(item.Price)
	c.totalCount++

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// DecrementQuantity lowers the line's quantity by one, removing the line when
// it would reach zero. totalPrice shrinks by the unit price only when the line
// exists; totalCount shrinks by one either way (inherited quirk, preserved).
func (c *Cart) DecrementQuantity(id string) {
	idx := c.indexOf(id)
	if idx >= 0 {
		c.totalPrice = c.totalPrice.Sub(c.items[idx].Price)
	}
	c.totalCount--

	if idx < 0 {
		return
	}
	if c.items[idx].Quantity > 1 {
		c.items[idx].Quantity--
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

// RemoveItem drops the whole line. Totals shrink by price*quantity and by the
// line's aggregated quantity. Unknown ids leave the cart untouched.
func (c *Cart) RemoveItem(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	line := c.items[idx]
	c.totalPrice = c.totalPrice.Sub(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	c.totalCount -= line.Quantity
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

// Empty resets the cart to its initial state.
func (c *Cart) Empty() {
	c.items = nil
	c.totalPrice = decimal.Zero
	c.totalCount = 0
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) TotalPrice() decimal.Decimal {
	return c.totalPrice
}

func (c *Cart) TotalCount() int {
	return c.totalCount
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Snapshot captures the cart for persistence.
func (c *Cart) Snapshot() CartSnapshot {
	return CartSnapshot{
		Items:      c.Items(),
		TotalPrice: c.totalPrice,
		TotalCount: c.totalCount,
	}
}

// Restore replaces the cart contents from a snapshot.
func (c *Cart) Restore(snap CartSnapshot) {
	c.items = make([]LineItem, len(snap.Items))
	copy(c.items, snap.Items)
	c.totalPrice = snap.TotalPrice
	c.totalCount = snap.TotalCount
}

func (c *Cart) indexOf(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
