package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"
)

// Service serves the catalog from cache, falling back to the provider. Concurrent
// misses for the same snapshot collapse into one provider call.
type Service struct {
	provider Provider
	cache    Cache
	sfg      singleflight.Group
}

// NewService wires a provider with an optional cache (nil disables caching).
func NewService(provider Provider, cache Cache) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
	}
}

// Products returns the full product list. Callers must not mutate the result.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		if s.cache != nil {
			products, err := s.cache.GetProducts(ctx)
			if err == nil {
				return products, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("[catalog] cache get products: %v", err)
			}
		}

		products, err := s.provider.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetProducts(ctx, products); err != nil {
				log.Printf("[catalog] cache set products: %v", err)
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

// Product returns one product, looking in the cached list before asking the
// provider. Returns (nil, nil) when it does not exist.
func (s *Service) Product(ctx context.Context, id string) (*Product, error) {
	products, err := s.Products(ctx)
	if err == nil {
		for i := range products {
			if products[i].ID == id {
				p := products[i]
				return &p, nil
			}
		}
	}
	return s.provider.GetProduct(ctx, id)
}

// Categories returns CMS categories (or categories derived from products) with
// fresh product counts.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	v, err, _ := s.sfg.Do("categories", func() (interface{}, error) {
		if s.cache != nil {
			cats, err := s.cache.GetCategories(ctx)
			if err == nil {
				return cats, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("[catalog] cache get categories: %v", err)
			}
		}

		products, err := s.Products(ctx)
		if err != nil {
			return nil, err
		}
		fromCMS, err := s.provider.ListCategories(ctx)
		if err != nil {
			log.Printf("[catalog] categories unavailable, deriving from products: %v", err)
			fromCMS = nil
		}

		cats := BuildCategories(fromCMS, products)
		if s.cache != nil {
			if err := s.cache.SetCategories(ctx, cats); err != nil {
				log.Printf("[catalog] cache set categories: %v", err)
			}
		}
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Category), nil
}

// ByCategory returns the products whose category equals slug.
func (s *Service) ByCategory(ctx context.Context, slug string) ([]Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Filter{Category: NormalizeCategory(slug)}.Apply(products), nil
}

// Refresh drops the cached snapshot so the next read hits the provider.
func (s *Service) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}
