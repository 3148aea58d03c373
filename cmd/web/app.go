package main

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/backend"
	"docushop.org/docushop-web/internal/cart"
	"docushop.org/docushop-web/internal/catalog"
	"docushop.org/docushop-web/internal/content"
	"docushop.org/docushop-web/internal/format"
	mw "docushop.org/docushop-web/internal/middleware"
	"docushop.org/docushop-web/internal/render"
)

//go:embed templates
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// application bundles the handler dependencies. Tests construct it with fake
// backends and a recording cart sink.
type application struct {
	log      *zap.Logger
	catalog  *catalog.Client
	backend  *backend.Client
	resolver *catalog.Resolver
	renderer *render.Renderer
	sink     cart.Sink
	content  content.Store
	pages    map[string]*template.Template
}

func newApplication(logger *zap.Logger, catalogClient *catalog.Client, backendClient *backend.Client,
	resolver *catalog.Resolver, sink cart.Sink, store content.Store) (*application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &application{
		log:      logger,
		catalog:  catalogClient,
		backend:  backendClient,
		resolver: resolver,
		renderer: render.New(logger),
		sink:     sink,
		content:  store,
		pages:    pages,
	}, nil
}

// routes builds the full router: storefront, interaction fragments, admin
// console, assets, health.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Logger(app.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets, err := fs.Sub(assetFS, "assets")
	if err == nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", mw.AssetsWithCache(assets)))
	}

	r.Get("/", app.homeHandler)
	r.Get("/cart", app.cartPageHandler)
	r.Post("/cart/items", app.cartAddHandler)
	r.Get("/products/{id}/review", app.quickReviewHandler)
	r.Get("/category/{page}/grid", app.gridFragHandler)
	r.Get("/{page}.html", app.categoryPageHandler)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", app.adminDashboardHandler)
		r.Get("/products", app.adminProductsHandler)
		r.Get("/products/grid", app.adminProductsGridFrag)
		r.Post("/products", app.adminProductCreateHandler)
		r.Delete("/products/{id}", app.adminProductDeleteHandler)
		r.Get("/users", app.adminUsersHandler)
		r.Post("/users", app.adminUserCreateHandler)
		r.Post("/users/{id}/delete", app.adminUserDeleteHandler)
		r.Get("/orders", app.adminOrdersHandler)
		r.Get("/orders/{id}", app.adminOrderDetailFrag)
		r.Get("/settings", app.adminShippingHandler)
		r.Post("/settings/shipping", app.adminShippingSaveHandler)
		r.Get("/content", app.adminContentHandler)
		r.Post("/content", app.adminContentSaveHandler)
	})

	return r
}

// parsePages builds one template per page file, cloned from the matching
// layout. Storefront pages use layout.tmpl, admin_* pages the admin layout.
func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"price":    format.Price,
		"datetime": format.DateTime,
		"relative": func(t time.Time) string { return format.Relative(t, time.Now()) },
	}

	shopLayout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	adminLayout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/admin_layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse admin layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no page templates found")
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".tmpl")
		layout := shopLayout
		if strings.HasPrefix(name, "admin_") {
			layout = adminLayout
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// pageData is the shared layout view model.
type pageData struct {
	Title     string
	Path      string
	Nav       []navItem
	CartCount int
	Site      content.SiteContent
	Notice    string
	Tone      string
	Data      any
}

func (app *application) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	t, ok := app.pages[name]
	if !ok {
		app.log.Error("unknown page template", zap.String("page", name))
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	count, err := app.sink.Count(r.Context())
	if err != nil {
		app.log.Warn("cart count failed", zap.Error(err))
	}
	site := app.siteContent(r.Context())
	vm := pageData{
		Title:     title,
		Path:      r.URL.Path,
		Nav:       app.navItems(r.URL.Path),
		CartCount: count,
		Site:      site,
		Notice:    r.URL.Query().Get("notice"),
		Tone:      r.URL.Query().Get("tone"),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", vm); err != nil {
		app.log.Error("template exec failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderFragment executes one named template from a page's set, for htmx
// partial swaps.
func (app *application) renderFragment(w http.ResponseWriter, page, name string, data any) {
	t, ok := app.pages[page]
	if !ok {
		app.log.Error("unknown page template", zap.String("page", page))
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		app.log.Error("fragment exec failed", zap.String("fragment", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// siteContent returns the stored copy, falling back to defaults until an
// admin saves their own.
func (app *application) siteContent(ctx context.Context) content.SiteContent {
	if app.content == nil {
		return content.Default()
	}
	c, err := app.content.Get(ctx)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			app.log.Warn("load site content failed", zap.Error(err))
		}
		return content.Default()
	}
	return c
}

// redirectWithNotice sends the browser back to target with a banner message.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, target, notice, tone string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	http.Redirect(w, r, target+sep+"notice="+url.QueryEscape(notice)+"&tone="+url.QueryEscape(tone), http.StatusSeeOther)
}
