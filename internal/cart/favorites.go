package cart

import "github.com/imrishuroy/fybyshop/internal/catalog"

// Favorites is a user's wishlist, in insertion order.
type Favorites struct {
	Products []catalog.Product `json:"items"`
}

func (f Favorites) Contains(productID string) bool {
	for _, p := range f.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Add appends p unless it is already present.
func (f Favorites) Add(p catalog.Product) Favorites {
	if f.Contains(p.ID) {
		return f
	}
	next := make([]catalog.Product, len(f.Products), len(f.Products)+1)
	copy(next, f.Products)
	return Favorites{Products: append(next, p)}
}

func (f Favorites) Remove(productID string) Favorites {
	next := make([]catalog.Product, 0, len(f.Products))
	for _, p := range f.Products {
		if p.ID != productID {
			next = append(next, p)
		}
	}
	return Favorites{Products: next}
}
