package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/cart"
	"docushop.org/docushop-web/internal/catalog"
)

// cartAddHandler records one line item for the submitted product. The product
// is resolved against the live collection by its tagged id; an empty or
// unknown id is a silent no-op so a stale button cannot corrupt the cart.
func (app *application) cartAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	id := r.PostFormValue("product_id")
	if id == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	category := r.PostFormValue("category")

	products, err := app.catalog.FetchCatalog(r.Context(), category)
	if err != nil {
		app.log.Warn("cart add: catalog fetch failed",
			zap.String("product_id", id), zap.Error(err))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	p, ok := catalog.FindByID(products, id)
	if !ok {
		app.log.Warn("cart add: unknown product id", zap.String("product_id", id))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// One activation, one line item at quantity 1. The mutation is
	// fire-and-forget from the shopper's perspective: a sink failure is
	// logged but still answered with the feedback state.
	if err := app.sink.Add(r.Context(), cart.Item{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Qty:   1,
	}); err != nil {
		app.log.Error("cart add failed", zap.String("product_id", p.ID), zap.Error(err))
	}

	if count, err := app.sink.Count(r.Context()); err == nil {
		w.Header().Set("HX-Trigger", fmt.Sprintf(`{"cart-updated":{"count":%d}}`, count))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := app.renderer.CartButton(w, p); err != nil {
		app.log.Error("render cart button failed", zap.Error(err))
	}
}

type cartRow struct {
	Item     cart.Item
	Subtotal float64
}

type cartPageData struct {
	Rows  []cartRow
	Total float64
}

func (app *application) cartPageHandler(w http.ResponseWriter, r *http.Request) {
	items, err := app.sink.Items(r.Context())
	if err != nil {
		app.log.Warn("cart read failed", zap.Error(err))
	}

	data := cartPageData{Rows: make([]cartRow, 0, len(items))}
	for _, item := range items {
		subtotal := item.Price * float64(item.Qty)
		data.Rows = append(data.Rows, cartRow{Item: item, Subtotal: subtotal})
		data.Total += subtotal
	}
	app.renderPage(w, r, "cart", "Your Cart", data)
}
