package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultContentfulBaseURL = "https://cdn.contentful.com"
	productPageLimit         = 100
	categoryPageLimit        = 50
)

// ContentfulConfig configures the Contentful Delivery API provider.
type ContentfulConfig struct {
	SpaceID     string
	AccessToken string
	Environment string // defaults to "master"
	BaseURL     string // defaults to https://cdn.contentful.com
	HTTPClient  *http.Client
}

// ContentfulProvider reads products and categories from the Contentful Delivery API.
type ContentfulProvider struct {
	cfg    ContentfulConfig
	client *http.Client
}

// NewContentfulProvider returns a provider; it fails when credentials are missing.
func NewContentfulProvider(cfg ContentfulConfig) (*ContentfulProvider, error) {
	if cfg.SpaceID == "" || cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Environment == "" {
		cfg.Environment = "master"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultContentfulBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ContentfulProvider{cfg: cfg, client: client}, nil
}

// ListProducts fetches up to one page of product entries with linked assets and categories.
func (p *ContentfulProvider) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := p.entries(ctx, url.Values{
		"content_type": {"product"},
		"limit":        {fmt.Sprint(productPageLimit)},
		"include":      {"2"},
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	r := newLinkResolver(resp.Includes)
	products := make([]Product, 0, len(resp.Items))
	for i, e := range resp.Items {
		prod, err := r.productFromEntry(i, e)
		if err != nil {
			log.Printf("[catalog] skipping product %d: %v", i+1, err)
			continue
		}
		products = append(products, prod)
	}
	return products, nil
}

// GetProduct fetches one product by entry id. Returns (nil, nil) if not found.
func (p *ContentfulProvider) GetProduct(ctx context.Context, id string) (*Product, error) {
	resp, err := p.entries(ctx, url.Values{
		"content_type": {"product"},
		"sys.id":       {id},
		"include":      {"2"},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	prod, err := newLinkResolver(resp.Includes).productFromEntry(-1, resp.Items[0])
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// ListCategories fetches category entries. Product counts are left at zero;
// BuildCategories fills them in.
func (p *ContentfulProvider) ListCategories(ctx context.Context) ([]Category, error) {
	resp, err := p.entries(ctx, url.Values{
		"content_type": {"category"},
		"limit":        {fmt.Sprint(categoryPageLimit)},
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(resp.Items))
	for i, e := range resp.Items {
		out = append(out, categoryFromEntry(i, e))
	}
	return out, nil
}

func (p *ContentfulProvider) entries(ctx context.Context, q url.Values) (*entriesResponse, error) {
	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		p.cfg.BaseURL, url.PathEscape(p.cfg.SpaceID), url.PathEscape(p.cfg.Environment), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request entries: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("contentful status %d: %s", res.StatusCode, string(body))
	}

	var out entriesResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return &out, nil
}
