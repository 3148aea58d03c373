package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// defaultPages maps storefront page file names to category keys. Lookup is
// case-sensitive on the file name only. Adding a new category page means
// adding one entry here or in the override file.
var defaultPages = map[string]string{
	"shop.html":           "shop",
	"greeting-cards.html": "greeting-cards",
	"business-cards.html": "business-cards",
	"letterheads.html":    "letterheads",
	"envelopes.html":      "envelopes",
	"notebooks.html":      "notebooks",
	"stamps.html":         "stamps",
	"gift-wrap.html":      "gift-wrap",
	"planners.html":       "planners",
}

// Resolver maps a page's identifying slug to its catalog category key.
type Resolver struct {
	pages map[string]string
}

// NewResolver returns a resolver over the built-in page table.
func NewResolver() *Resolver {
	pages := make(map[string]string, len(defaultPages))
	for slug, key := range defaultPages {
		pages[slug] = key
	}
	return &Resolver{pages: pages}
}

// LoadResolver overlays the built-in table with entries from a YAML mapping
// file of "page-slug: category-key" pairs.
func LoadResolver(path string) (*Resolver, error) {
	r := NewResolver()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read category map: %w", err)
	}
	var overlay map[string]string
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("catalog: parse category map: %w", err)
	}
	for slug, key := range overlay {
		r.pages[slug] = key
	}
	return r, nil
}

// Resolve returns the category key for a page slug. A miss is a valid
// outcome: pages outside the table render without a catalog filter.
func (r *Resolver) Resolve(pageSlug string) (string, bool) {
	key, ok := r.pages[pageSlug]
	return key, ok
}

// Pages returns the known page slugs in sorted order.
func (r *Resolver) Pages() []string {
	out := make([]string, 0, len(r.pages))
	for slug := range r.pages {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Categories returns the distinct category keys in sorted order, for filter
// dropdowns.
func (r *Resolver) Categories() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(r.pages))
	for _, key := range r.pages {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
