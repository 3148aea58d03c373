package main

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/catalog"
)

type homeData struct {
	Categories []navItem
}

func (app *application) homeHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, "home", "", homeData{Categories: app.navItems("")})
}

type categoryPageData struct {
	Slug     string
	Category string
	HasGrid  bool
	Grid     template.HTML
}

// categoryPageHandler serves the per-category shop pages. The page slug is
// looked up in the resolver; a miss renders the page shell without a grid.
func (app *application) categoryPageHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "page") + ".html"
	data := categoryPageData{Slug: slug}

	if category, ok := app.resolver.Resolve(slug); ok {
		data.Category = category
		data.HasGrid = true
		data.Grid = app.gridHTML(r, category)
	}

	app.renderPage(w, r, "category", pageTitle(slug), data)
}

// gridFragHandler re-renders the grid contents for a page's category, for
// fragment swaps that bypass a full page load. Each response is a complete
// grid for the resolved category, so the latest swap always wins outright.
func (app *application) gridFragHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "page") + ".html"
	category, ok := app.resolver.Resolve(slug)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(app.gridHTML(r, category)))
}

// gridHTML fetches the collection and renders the complete grid contents. A
// fetch or parse failure yields the single error placeholder instead, so the
// container is replaced wholesale either way.
func (app *application) gridHTML(r *http.Request, category string) template.HTML {
	var buf bytes.Buffer

	products, err := app.catalog.FetchCatalog(r.Context(), category)
	if err != nil {
		app.log.Warn("catalog fetch failed",
			zap.String("category", category), zap.Error(err))
		if err := app.renderer.Error(&buf); err != nil {
			app.log.Error("render error placeholder failed", zap.Error(err))
			return ""
		}
		return template.HTML(buf.String())
	}

	matched := catalog.FilterByCategory(products, category)
	if err := app.renderer.Grid(&buf, matched); err != nil {
		app.log.Error("render grid failed", zap.Error(err))
		return ""
	}
	return template.HTML(buf.String())
}

// navItem is one storefront navigation entry.
type navItem struct {
	Slug   string
	Label  string
	Href   string
	Active bool
}

func (app *application) navItems(activePath string) []navItem {
	slugs := app.resolver.Pages()
	items := make([]navItem, 0, len(slugs))
	for _, slug := range slugs {
		items = append(items, navItem{
			Slug:   slug,
			Label:  pageTitle(slug),
			Href:   "/" + slug,
			Active: activePath == "/"+slug,
		})
	}
	return items
}

func pageTitle(slug string) string {
	name := strings.TrimSuffix(slug, ".html")
	words := strings.Split(name, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
