package catalog

import (
	"sort"
	"strings"
)

// Sort keys accepted by Sort.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// All matches every category or brand in a Filter.
const All = "all"

// Filter narrows a listing by category slug and brand. Empty values behave like All.
type Filter struct {
	Category string
	Brand    string
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && f.Category != All && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && f.Brand != All && p.Brand != f.Brand {
		return false
	}
	return true
}

// Apply returns the products matching the filter, preserving order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders products in place. Unknown keys sort by name.
func Sort(products []Product, key string) {
	var less func(a, b Product) bool
	switch key {
	case SortPriceLow:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceHigh:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b Product) bool { return a.IsNew && !b.IsNew }
	default:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// Brands returns the distinct brands, sorted.
func Brands(products []Product) []string {
	set := make(map[string]struct{})
	for _, p := range products {
		set[p.Brand] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Featured returns the products flagged as featured.
func Featured(products []Product) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}
