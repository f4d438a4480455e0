// Package search ranks catalog products against a free-text query.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/imrishuroy/fybyshop/internal/catalog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinQueryLength is the shortest trimmed query that filters anything.
const MinQueryLength = 2

// MaxSuggestions caps the fallback result set.
const MaxSuggestions = 6

// minTokenLength is exclusive: only tokens longer than this contribute.
const minTokenLength = 2

type weights struct {
	name, brand, category, description int
}

var (
	wholeQuery  = weights{name: 100, brand: 80, category: 60, description: 40}
	perToken    = weights{name: 50, brand: 40, category: 30, description: 20}
	namePrefix  = 50
	brandPrefix = 40
)

var combiningMarks = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
})

// Normalize lowercases s, strips diacritics and anything outside [a-z0-9] and
// whitespace, then trims.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(combiningMarks))
	decomposed, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		decomposed = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

type candidate struct {
	name, brand, category, description string
}

func newCandidate(p catalog.Product) candidate {
	return candidate{
		name:        Normalize(p.Name),
		brand:       Normalize(p.Brand),
		category:    Normalize(p.Category),
		description: Normalize(p.Description),
	}
}

func (c candidate) matches(term string, w weights) int {
	score := 0
	if strings.Contains(c.name, term) {
		score += w.name
	}
	if strings.Contains(c.brand, term) {
		score += w.brand
	}
	if strings.Contains(c.category, term) {
		score += w.category
	}
	if strings.Contains(c.description, term) {
		score += w.description
	}
	return score
}

func score(c candidate, query string, tokens []string) int {
	s := c.matches(query, wholeQuery)
	for _, tok := range tokens {
		s += c.matches(tok, perToken)
	}
	if strings.HasPrefix(c.name, query) {
		s += namePrefix
	}
	if strings.HasPrefix(c.brand, query) {
		s += brandPrefix
	}
	return s
}

// Ranks reports whether query is long enough for Search to filter and rank.
func Ranks(query string) bool {
	return len([]rune(strings.TrimSpace(query))) >= MinQueryLength
}

// Search returns the products matching query, most relevant first. Queries
// shorter than MinQueryLength return products unchanged. When nothing scores,
// up to MaxSuggestions loosely matching products are returned instead.
// products is never modified.
func Search(query string, products []catalog.Product) []catalog.Product {
	if !Ranks(query) {
		return products
	}

	q := Normalize(query)
	tokens := significantTokens(q)

	type scored struct {
		product catalog.Product
		score   int
	}
	hits := make([]scored, 0, len(products))
	for _, p := range products {
		if s := score(newCandidate(p), q, tokens); s > 0 {
			hits = append(hits, scored{product: p, score: s})
		}
	}

	if len(hits) == 0 {
		return suggestions(tokens, products)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	out := make([]catalog.Product, len(hits))
	for i, h := range hits {
		out[i] = h.product
	}
	return out
}

func significantTokens(q string) []string {
	var out []string
	for _, tok := range strings.Fields(q) {
		if len(tok) > minTokenLength {
			out = append(out, tok)
		}
	}
	return out
}

// suggestions keeps products whose raw lowercased text contains any token with
// its last character dropped (never shorter than three).
func suggestions(tokens []string, products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0)
	if len(tokens) == 0 {
		return out
	}
	for _, p := range products {
		text := strings.ToLower(p.Name + " " + p.Brand + " " + p.Description + " " + p.Category)
		for _, tok := range tokens {
			if strings.Contains(text, truncate(tok)) {
				out = append(out, p)
				break
			}
		}
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func truncate(tok string) string {
	n := len(tok) - 1
	if n < 3 {
		n = 3
	}
	return tok[:n]
}

// QuickLimit caps Quick results.
const QuickLimit = 5

// Quick is the type-ahead lookup: a plain case-insensitive substring match on
// name, brand and description for terms longer than two characters.
func Quick(term string, products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, QuickLimit)
	if len([]rune(term)) <= minTokenLength {
		return out
	}
	t := strings.ToLower(term)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), t) ||
			strings.Contains(strings.ToLower(p.Brand), t) ||
			strings.Contains(strings.ToLower(p.Description), t) {
			out = append(out, p)
			if len(out) == QuickLimit {
				break
			}
		}
	}
	return out
}
