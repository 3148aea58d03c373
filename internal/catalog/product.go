package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Product is a catalog record as received from the backend. Field naming and
// typing vary between backend deployments, so all coercion happens at the
// decode boundary; downstream code never branches on source field naming.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Category    string
	Image       string
	Description string
	QuickReview string

	// PriceOK is false when the source price was missing or non-numeric.
	// Rendering degrades to $0.00 in that case; it is never fatal.
	PriceOK bool
}

// Blurb returns the display line for a card: description first, quick review
// as fallback.
func (p Product) Blurb() string {
	if s := strings.TrimSpace(p.Description); s != "" {
		return s
	}
	return strings.TrimSpace(p.QuickReview)
}

// MatchesCategory reports whether the product belongs to the given category,
// comparing normalized forms on both sides.
func (p Product) MatchesCategory(category string) bool {
	return NormalizeCategory(p.Category) == NormalizeCategory(category)
}

// NormalizeCategory lower-cases the category and collapses whitespace runs to
// single hyphens, so "Greeting Cards", "greeting-cards" and "  greeting
// cards " all compare equal. The function is idempotent.
func NormalizeCategory(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, "-")
}

// FilterByCategory returns the products matching category. An empty category
// matches everything. This is a defensive client-side filter for backends
// that ignore the category query parameter.
func FilterByCategory(products []Product, category string) []Product {
	if strings.TrimSpace(category) == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.MatchesCategory(category) {
			out = append(out, p)
		}
	}
	return out
}

// FindByID resolves a product by its unified identifier with a linear scan.
// Collections are bounded by a catalog page, so no index is kept.
func FindByID(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// productPayload mirrors the wire record. Identifier and price arrive with
// inconsistent names and types across endpoints ("_id" vs "id", number vs
// numeric string), hence the raw fields.
type productPayload struct {
	MongoID     json.RawMessage `json:"_id"`
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	QuickReview string          `json:"quickReview"`
}

func (p productPayload) toProduct() Product {
	id := flexString(p.MongoID)
	if id == "" {
		id = flexString(p.ID)
	}
	price, ok := flexFloat(p.Price)
	return Product{
		ID:          id,
		Name:        strings.TrimSpace(p.Name),
		Price:       price,
		PriceOK:     ok,
		Category:    strings.TrimSpace(p.Category),
		Image:       strings.TrimSpace(p.Image),
		Description: p.Description,
		QuickReview: p.QuickReview,
	}
}

// flexString decodes a JSON string or number into its string form.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// flexFloat decodes a JSON number or numeric string. Anything else yields
// (0, false).
func flexFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
