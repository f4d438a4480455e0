package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const (
	placeholderImage   = "https://images.pexels.com/photos/205421/pexels-photo-205421.jpeg?auto=compress&cs=tinysrgb&w=400"
	defaultPrice       = 100
	defaultBrand       = "Sans marque"
	defaultDescription = "Description du produit"
	defaultRating      = 4.5
	defaultReviewCount = 10
)

type sys struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
}

type entry struct {
	Sys    sys             `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

type includes struct {
	Entry []entry `json:"Entry"`
	Asset []entry `json:"Asset"`
}

type entriesResponse struct {
	Total    int      `json:"total"`
	Items    []entry  `json:"items"`
	Includes includes `json:"includes"`
}

type productFields struct {
	Name           *string           `json:"name"`
	Price          *float64          `json:"price"`
	OriginalPrice  *float64          `json:"originalPrice"`
	Image          json.RawMessage   `json:"image"`
	Images         []json.RawMessage `json:"images"`
	Category       json.RawMessage   `json:"category"`
	Brand          *string           `json:"brand"`
	Description    *string           `json:"description"`
	Specifications map[string]any    `json:"specifications"`
	InStock        *bool             `json:"inStock"`
	Rating         *float64          `json:"rating"`
	ReviewCount    *int              `json:"reviewCount"`
	IsNew          *bool             `json:"isNew"`
	IsFeatured     *bool             `json:"isFeatured"`
	Featured       *bool             `json:"featured"`
}

type categoryFields struct {
	Name  *string `json:"name"`
	Slug  *string `json:"slug"`
	Title *string `json:"title"`
	Icon  *string `json:"icon"`
}

type assetFields struct {
	File struct {
		URL string `json:"url"`
	} `json:"file"`
}

// linkResolver resolves Link references against the response includes, the way
// the CMS SDK does for include=2 queries.
type linkResolver struct {
	entries map[string]json.RawMessage
	assets  map[string]json.RawMessage
}

func newLinkResolver(inc includes) *linkResolver {
	r := &linkResolver{
		entries: make(map[string]json.RawMessage, len(inc.Entry)),
		assets:  make(map[string]json.RawMessage, len(inc.Asset)),
	}
	for _, e := range inc.Entry {
		r.entries[e.Sys.ID] = e.Fields
	}
	for _, a := range inc.Asset {
		r.assets[a.Sys.ID] = a.Fields
	}
	return r
}

// fields returns the fields of a raw value that is either an inline object with
// "fields" or a Link to an included entry/asset.
func (r *linkResolver) fields(raw json.RawMessage) (json.RawMessage, bool) {
	var v struct {
		Sys    *sys            `json:"sys"`
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	if len(v.Fields) > 0 {
		return v.Fields, true
	}
	if v.Sys == nil || v.Sys.Type != "Link" {
		return nil, false
	}
	switch v.Sys.LinkType {
	case "Asset":
		f, ok := r.assets[v.Sys.ID]
		return f, ok
	case "Entry":
		f, ok := r.entries[v.Sys.ID]
		return f, ok
	}
	return nil, false
}

func (r *linkResolver) assetURL(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	f, ok := r.fields(raw)
	if !ok {
		return "", false
	}
	var a assetFields
	if err := json.Unmarshal(f, &a); err != nil || a.File.URL == "" {
		return "", false
	}
	return "https:" + a.File.URL, true
}

// NormalizeCategory trims and lowercases a category, defaulting to "general".
func NormalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return DefaultCategory
	}
	return c
}

// extractCategory accepts a plain string, an inline object or a Link to a
// category entry and returns slug, name or title in that order of preference.
func (r *linkResolver) extractCategory(raw json.RawMessage) string {
	if isNull(raw) {
		return DefaultCategory
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	if f, ok := r.fields(raw); ok {
		var cf categoryFields
		if err := json.Unmarshal(f, &cf); err == nil {
			if v := firstNonEmpty(cf.Slug, cf.Name); v != "" {
				return v
			}
		}
		return DefaultCategory
	}

	var cf categoryFields
	if err := json.Unmarshal(raw, &cf); err == nil {
		if v := firstNonEmpty(cf.Slug, cf.Name, cf.Title); v != "" {
			return v
		}
	}
	return DefaultCategory
}

// productFromEntry maps a CMS product entry. index is the entry position and
// drives the fallback name; a negative index means a single-entry lookup.
func (r *linkResolver) productFromEntry(index int, e entry) (Product, error) {
	var f productFields
	if len(e.Fields) > 0 {
		if err := json.Unmarshal(e.Fields, &f); err != nil {
			return Product{}, fmt.Errorf("decode product %s: %w", e.Sys.ID, err)
		}
	}

	p := Product{
		ID:             e.Sys.ID,
		Name:           deref(f.Name),
		Price:          defaultPrice,
		Image:          placeholderImage,
		Images:         []string{},
		Category:       NormalizeCategory(r.extractCategory(f.Category)),
		Brand:          deref(f.Brand),
		Description:    deref(f.Description),
		Specifications: map[string]string{},
		InStock:        f.InStock == nil || *f.InStock,
		Rating:         defaultRating,
		ReviewCount:    defaultReviewCount,
		IsNew:          f.IsNew != nil && *f.IsNew,
		IsFeatured:     (f.IsFeatured != nil && *f.IsFeatured) || (f.Featured != nil && *f.Featured),
	}

	if p.Name == "" {
		if index < 0 {
			p.Name = "Produit sans nom"
		} else {
			p.Name = fmt.Sprintf("Produit %d", index+1)
		}
	}
	if p.Brand == "" {
		p.Brand = defaultBrand
	}
	if p.Description == "" {
		p.Description = defaultDescription
	}
	if f.Price != nil && *f.Price != 0 {
		p.Price = int64(math.Round(*f.Price))
	}
	if f.OriginalPrice != nil {
		op := int64(math.Round(*f.OriginalPrice))
		p.OriginalPrice = &op
	}
	if f.Rating != nil && *f.Rating != 0 {
		p.Rating = *f.Rating
	}
	if f.ReviewCount != nil && *f.ReviewCount != 0 {
		p.ReviewCount = *f.ReviewCount
	}
	if url, ok := r.assetURL(f.Image); ok {
		p.Image = url
	}
	for _, img := range f.Images {
		if url, ok := r.assetURL(img); ok {
			p.Images = append(p.Images, url)
		}
	}
	for k, v := range f.Specifications {
		p.Specifications[k] = fmt.Sprint(v)
	}
	return p, nil
}

func categoryFromEntry(index int, e entry) Category {
	var f categoryFields
	_ = json.Unmarshal(e.Fields, &f)

	slug := firstNonEmpty(f.Slug, f.Name)
	if slug == "" {
		slug = fmt.Sprintf("category-%d", index+1)
	}
	slug = strings.ToLower(strings.TrimSpace(slug))

	name := deref(f.Name)
	if name == "" {
		name = fmt.Sprintf("Catégorie %d", index+1)
	}
	icon := deref(f.Icon)
	if icon == "" {
		icon = CategoryIcon(slug)
	}
	return Category{ID: e.Sys.ID, Name: name, Slug: slug, Icon: icon}
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
