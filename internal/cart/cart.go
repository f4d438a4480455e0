// Package cart holds the shopping cart and favorites as immutable values.
// Every transition returns a new value and leaves the receiver untouched.
package cart

import (
	"errors"

	"github.com/imrishuroy/fybyshop/internal/catalog"
)

// ErrInvalidQuantity is returned when adding a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is one product in the cart. No two lines share a product id.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Total is price times quantity.
func (l Line) Total() int64 {
	return l.Product.Price * int64(l.Quantity)
}

type Cart struct {
	Lines []Line `json:"items"`
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

func (c Cart) index(productID string) int {
	for i, l := range c.Lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts quantity units of p in the cart, merging with an existing line.
func (c Cart) Add(p catalog.Product, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, ErrInvalidQuantity
	}
	next := c.clone()
	if i := next.index(p.ID); i >= 0 {
		next.Lines[i].Quantity += quantity
		return next, nil
	}
	next.Lines = append(next.Lines, Line{Product: p, Quantity: quantity})
	return next, nil
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
// Unknown products are ignored.
func (c Cart) UpdateQuantity(productID string, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	next := c.clone()
	if i := next.index(productID); i >= 0 {
		next.Lines[i].Quantity = quantity
	}
	return next
}

func (c Cart) Remove(productID string) Cart {
	next := Cart{Lines: make([]Line, 0, len(c.Lines))}
	for _, l := range c.Lines {
		if l.Product.ID != productID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// Subtract takes the quantities of lines out of the cart. Lines that reach
// zero are dropped; products not in the cart are ignored.
func (c Cart) Subtract(lines []Line) Cart {
	next := c.clone()
	for _, l := range lines {
		if i := next.index(l.Product.ID); i >= 0 {
			next = next.UpdateQuantity(l.Product.ID, next.Lines[i].Quantity-l.Quantity)
		}
	}
	return next
}

func (c Cart) Clear() Cart {
	return Cart{Lines: []Line{}}
}

// Subtotal is the sum of line totals, before delivery.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
