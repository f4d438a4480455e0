package catalog

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var categoryNames = map[string]string{
	"computers":       "Ordinateurs",
	"ordinateurs":     "Ordinateurs",
	"pc":              "PC",
	"laptop":          "Ordinateurs Portables",
	"smartphones":     "Smartphones",
	"phones":          "Téléphones",
	"telephone":       "Téléphones",
	"audio":           "Audio",
	"headphones":      "Casques Audio",
	"casque":          "Casques",
	"gaming":          "Gaming",
	"jeux":            "Jeux",
	"accessories":     "Accessoires",
	"accessoires":     "Accessoires",
	"tv":              "Télévisions",
	"television":      "Télévisions",
	"tablets":         "Tablettes",
	"tablettes":       "Tablettes",
	"watches":         "Montres",
	"montres":         "Montres",
	"cameras":         "Appareils Photo",
	"appareils-photo": "Appareils Photo",
	"general":         "Général",
	"default":         "Autres",
}

var categoryIcons = map[string]string{
	"computers":       "Monitor",
	"ordinateurs":     "Monitor",
	"pc":              "Monitor",
	"laptop":          "Laptop",
	"smartphones":     "Smartphone",
	"phones":          "Smartphone",
	"telephone":       "Smartphone",
	"audio":           "Headphones",
	"headphones":      "Headphones",
	"casque":          "Headphones",
	"gaming":          "Gamepad2",
	"jeux":            "Gamepad2",
	"accessories":     "Package",
	"accessoires":     "Package",
	"tv":              "Tv",
	"television":      "Tv",
	"tablets":         "Tablet",
	"tablettes":       "Tablet",
	"watches":         "Watch",
	"montres":         "Watch",
	"cameras":         "Camera",
	"appareils-photo": "Camera",
	"general":         "Package",
	"default":         "Package",
}

// CategoryName returns the display name for a slug, capitalizing unknown slugs.
func CategoryName(slug string) string {
	if name, ok := categoryNames[strings.ToLower(slug)]; ok {
		return name
	}
	r, size := utf8.DecodeRuneInString(slug)
	if r == utf8.RuneError {
		return slug
	}
	return string(unicode.ToUpper(r)) + slug[size:]
}

// CategoryIcon returns the icon name for a slug.
func CategoryIcon(slug string) string {
	if icon, ok := categoryIcons[strings.ToLower(slug)]; ok {
		return icon
	}
	return categoryIcons["default"]
}

// BuildCategories returns the CMS categories with product counts recomputed from
// products. When the CMS has none, categories are derived from the distinct
// product categories in first-seen order.
func BuildCategories(fromCMS []Category, products []Product) []Category {
	counts := make(map[string]int)
	var seen []string
	for _, p := range products {
		if _, ok := counts[p.Category]; !ok {
			seen = append(seen, p.Category)
		}
		counts[p.Category]++
	}

	out := make([]Category, 0, len(fromCMS))
	if len(fromCMS) == 0 {
		for i, slug := range seen {
			out = append(out, Category{
				ID:   fmt.Sprintf("cat-%d", i),
				Name: CategoryName(slug),
				Slug: slug,
				Icon: CategoryIcon(slug),
			})
		}
	} else {
		out = append(out, fromCMS...)
	}

	for i := range out {
		out[i].ProductCount = counts[out[i].Slug]
	}
	return out
}
