package catalog

import (
	"context"
	"errors"
)

// DefaultCategory is assigned to products whose CMS entry has no category.
const DefaultCategory = "general"

// Product is a catalog item as exposed to the storefront. Category is always
// normalized (trimmed, lowercased).
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Price          int64             `json:"price"`
	OriginalPrice  *int64            `json:"originalPrice,omitempty"`
	Image          string            `json:"image"`
	Images         []string          `json:"images"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	InStock        bool              `json:"inStock"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	IsNew          bool              `json:"isNew"`
	IsFeatured     bool              `json:"isFeatured"`
}

// Category groups products sharing a slug.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Icon         string `json:"icon"`
	ProductCount int    `json:"productCount"`
}

// Provider is the remote catalog (headless CMS).
type Provider interface {
	ListProducts(ctx context.Context) ([]Product, error)
	// GetProduct returns (nil, nil) when the product does not exist.
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// ErrNotConfigured is returned by providers missing credentials.
var ErrNotConfigured = errors.New("catalog provider not configured")
