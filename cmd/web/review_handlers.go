package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/catalog"
)

// quickReviewHandler serves the shared review modal's contents for one
// product. Every card targets the same modal body, so consecutive requests
// replace the previous review rather than stacking dialogs.
func (app *application) quickReviewHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category := r.URL.Query().Get("category")

	products, err := app.catalog.FetchCatalog(r.Context(), category)
	if err != nil {
		app.log.Warn("quick review: catalog fetch failed",
			zap.String("product_id", id), zap.Error(err))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	p, ok := catalog.FindByID(products, id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := app.renderer.QuickReview(w, p); err != nil {
		app.log.Error("render quick review failed", zap.Error(err))
	}
}
