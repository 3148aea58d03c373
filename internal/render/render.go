// Package render turns product collections into catalog grid markup. The grid
// fragment is always rendered wholesale from the latest collection, never
// merged with a previous one, so a swap can leave neither stale cards nor
// duplicate identifiers behind.
package render

import (
	"html/template"
	"io"
	"net/url"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/catalog"
	"docushop.org/docushop-web/internal/format"
)

// PlaceholderImage is served for products whose image URL is empty.
const PlaceholderImage = "/assets/img/placeholder.svg"

// FeedbackRevertMillis is how long the "Added!" label stays before the
// storefront script reverts it. Presentation only.
const FeedbackRevertMillis = 1500

const gridTemplates = `
{{define "cart_button" -}}
<form class="cart-add" hx-post="/cart/items" hx-swap="outerHTML">
<input type="hidden" name="product_id" value="{{.ID}}">
<input type="hidden" name="category" value="{{.Category}}">
<button type="submit" class="add-to-cart-btn{{if .Added}} added{{end}}" data-product-id="{{.ID}}"{{if .Added}} data-revert-label="Add to Cart" data-revert-after="{{.RevertAfter}}"{{end}}>{{if .Added}}Added!{{else}}Add to Cart{{end}}</button>
</form>
{{- end}}

{{define "product_card" -}}
<article class="product-card" data-category="{{.Category}}">
<div class="product-image"><img src="{{.Image}}" alt="{{.Name}}" loading="lazy"></div>
<div class="product-info">
<h3>{{.Name}}</h3>
<div class="price">{{.PriceText}}</div>
<p class="description">{{.Blurb}}</p>
{{template "cart_button" .Button}}
<button type="button" class="quick-review-btn" data-product-id="{{.ID}}" hx-get="{{.ReviewURL}}" hx-target="#quick-review-body">Quick Review</button>
</div>
</article>
{{- end}}

{{define "catalog_grid" -}}
{{if .Cards}}{{range .Cards}}{{template "product_card" .}}
{{end}}{{else}}<div class="no-products">No products found for this category.</div>{{end}}
{{- end}}

{{define "catalog_error" -}}
<div class="catalog-error">Unable to load products.</div>
{{- end}}

{{define "quick_review" -}}
<h2 id="quick-review-title">{{.Title}}</h2>
<div id="quick-review-content">{{.Body}}</div>
{{- end}}
`

// Card is the view model for one rendered product.
type Card struct {
	ID        string
	Name      string
	PriceText string
	Image     string
	Category  string
	Blurb     template.HTML
	ReviewURL string
	Button    ButtonState
}

// ButtonState drives the add-to-cart control, including the transient
// "Added!" feedback state returned after a cart mutation.
type ButtonState struct {
	ID          string
	Category    string
	Added       bool
	RevertAfter int
}

// Renderer renders catalog fragments. Safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
	log    *zap.Logger
}

// New constructs a Renderer.
func New(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		tmpl:   template.Must(template.New("catalog").Parse(gridTemplates)),
		policy: bluemonday.UGCPolicy(),
		log:    logger,
	}
}

// Grid writes the complete grid contents for the collection: one card per
// product, or a single "no products" placeholder when the collection is
// empty. Callers swap the result into the grid container wholesale.
func (r *Renderer) Grid(w io.Writer, products []catalog.Product) error {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, r.card(p))
	}
	return r.tmpl.ExecuteTemplate(w, "catalog_grid", map[string]any{"Cards": cards})
}

// Error writes the single user-visible failure placeholder. It replaces the
// grid contents entirely so no stale or partial cards survive a failed fetch.
func (r *Renderer) Error(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "catalog_error", nil)
}

// CartButton writes the add-to-cart control in its post-activation feedback
// state. The control keeps its form wiring so a second activation submits
// again.
func (r *Renderer) CartButton(w io.Writer, p catalog.Product) error {
	return r.tmpl.ExecuteTemplate(w, "cart_button", ButtonState{
		ID:          p.ID,
		Category:    catalog.NormalizeCategory(p.Category),
		Added:       true,
		RevertAfter: FeedbackRevertMillis,
	})
}

// QuickReview writes the review modal contents for a product.
func (r *Renderer) QuickReview(w io.Writer, p catalog.Product) error {
	body := r.blurb(p)
	if body == "" {
		body = "No review available."
	}
	return r.tmpl.ExecuteTemplate(w, "quick_review", map[string]any{
		"Title": p.Name,
		"Body":  body,
	})
}

func (r *Renderer) card(p catalog.Product) Card {
	image := p.Image
	if image == "" {
		image = PlaceholderImage
	}
	if !p.PriceOK {
		r.log.Warn("rendering product with degraded price",
			zap.String("id", p.ID), zap.String("name", p.Name))
	}
	normalized := catalog.NormalizeCategory(p.Category)
	return Card{
		ID:        p.ID,
		Name:      p.Name,
		PriceText: format.Price(p.Price),
		Image:     image,
		Category:  normalized,
		Blurb:     r.blurb(p),
		ReviewURL: reviewURL(p.ID, normalized),
		Button: ButtonState{
			ID:       p.ID,
			Category: normalized,
		},
	}
}

// blurb sanitizes backend-sourced copy before it is marked safe for the
// template. Records come from an admin console we do not control.
func (r *Renderer) blurb(p catalog.Product) template.HTML {
	return template.HTML(r.policy.Sanitize(p.Blurb()))
}

func reviewURL(id, category string) string {
	u := "/products/" + url.PathEscape(id) + "/review"
	if category != "" {
		u += "?category=" + url.QueryEscape(category)
	}
	return u
}
