package main

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/backend"
	"docushop.org/docushop-web/internal/catalog"
	"docushop.org/docushop-web/internal/content"
)

type dashboardData struct {
	OrderCount int
	Revenue    float64
	UserCount  int
	Recent     []backend.Order
	LoadFailed bool
}

// adminDashboardHandler aggregates headline numbers from the backend. Each
// source degrades independently so a broken orders feed still shows users.
func (app *application) adminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	var data dashboardData

	orders, err := app.backend.Orders(r.Context())
	if err != nil {
		app.log.Warn("dashboard: orders fetch failed", zap.Error(err))
		data.LoadFailed = true
	} else {
		data.OrderCount = len(orders)
		for _, o := range orders {
			data.Revenue += o.Total
		}
		sort.Slice(orders, func(i, j int) bool {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
		if len(orders) > 5 {
			orders = orders[:5]
		}
		data.Recent = orders
	}

	users, err := app.backend.Users(r.Context())
	if err != nil {
		app.log.Warn("dashboard: users fetch failed", zap.Error(err))
		data.LoadFailed = true
	} else {
		data.UserCount = len(users)
	}

	app.renderPage(w, r, "admin_dashboard", "Dashboard", data)
}

type adminProductsData struct {
	Products   []catalog.Product
	Categories []string
	Selected   string
	LoadFailed bool
}

func (app *application) adminProductsHandler(w http.ResponseWriter, r *http.Request) {
	data := app.productsTableData(r)
	app.renderPage(w, r, "admin_products", "Products", data)
}

// adminProductsGridFrag re-renders just the products table, for the category
// filter dropdown.
func (app *application) adminProductsGridFrag(w http.ResponseWriter, r *http.Request) {
	app.renderFragment(w, "admin_products", "admin_products_table", app.productsTableData(r))
}

func (app *application) productsTableData(r *http.Request) adminProductsData {
	data := adminProductsData{
		Categories: app.resolver.Categories(),
		Selected:   r.URL.Query().Get("category"),
	}
	products, err := app.catalog.FetchCatalog(r.Context(), "")
	if err != nil {
		app.log.Warn("admin: catalog fetch failed", zap.Error(err))
		data.LoadFailed = true
		return data
	}
	data.Products = catalog.FilterByCategory(products, data.Selected)
	return data
}

func (app *application) adminProductCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/admin/products", "Invalid form submission.", "error")
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	category := strings.TrimSpace(r.PostFormValue("category"))
	priceRaw := strings.TrimSpace(r.PostFormValue("price"))
	price, priceErr := strconv.ParseFloat(priceRaw, 64)
	if name == "" || category == "" || priceRaw == "" || priceErr != nil || price < 0 {
		redirectWithNotice(w, r, "/admin/products", "Name, category and a valid price are required.", "error")
		return
	}

	err := app.backend.CreateProduct(r.Context(), backend.NewProduct{
		Name:        name,
		Category:    catalog.NormalizeCategory(category),
		Price:       price,
		Image:       strings.TrimSpace(r.PostFormValue("image")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	})
	if err != nil {
		app.log.Error("admin: create product failed", zap.Error(err))
		redirectWithNotice(w, r, "/admin/products", "Could not create the product.", "error")
		return
	}
	redirectWithNotice(w, r, "/admin/products", "Product created.", "success")
}

func (app *application) adminProductDeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := app.backend.DeleteProduct(r.Context(), id); err != nil {
		app.log.Error("admin: delete product failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "delete failed", http.StatusBadGateway)
		return
	}
	app.renderFragment(w, "admin_products", "admin_products_table", app.productsTableData(r))
}

type adminUsersData struct {
	Users      []backend.User
	LoadFailed bool
}

func (app *application) adminUsersHandler(w http.ResponseWriter, r *http.Request) {
	var data adminUsersData
	users, err := app.backend.Users(r.Context())
	if err != nil {
		app.log.Warn("admin: users fetch failed", zap.Error(err))
		data.LoadFailed = true
	}
	data.Users = users
	app.renderPage(w, r, "admin_users", "Users", data)
}

func (app *application) adminUserCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/admin/users", "Invalid form submission.", "error")
		return
	}
	user := backend.NewUser{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     strings.TrimSpace(r.PostFormValue("role")),
	}
	if user.Username == "" || user.Email == "" || user.Password == "" {
		redirectWithNotice(w, r, "/admin/users", "Username, email and password are required.", "error")
		return
	}
	if user.Role == "" {
		user.Role = "customer"
	}

	if err := app.backend.CreateUser(r.Context(), user); err != nil {
		app.log.Error("admin: create user failed", zap.Error(err))
		redirectWithNotice(w, r, "/admin/users", "Could not create the user.", "error")
		return
	}
	redirectWithNotice(w, r, "/admin/users", "User created.", "success")
}

func (app *application) adminUserDeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := app.backend.DeleteUser(r.Context(), id); err != nil {
		app.log.Error("admin: delete user failed", zap.String("id", id), zap.Error(err))
		redirectWithNotice(w, r, "/admin/users", "Could not delete the user.", "error")
		return
	}
	redirectWithNotice(w, r, "/admin/users", "User deleted.", "success")
}

type adminOrdersData struct {
	Orders     []backend.Order
	LoadFailed bool
}

func (app *application) adminOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var data adminOrdersData
	orders, err := app.backend.Orders(r.Context())
	if err != nil {
		app.log.Warn("admin: orders fetch failed", zap.Error(err))
		data.LoadFailed = true
	} else {
		sort.Slice(orders, func(i, j int) bool {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
	}
	data.Orders = orders
	app.renderPage(w, r, "admin_orders", "Orders", data)
}

// adminOrderDetailFrag serves one order's line items for the expandable row.
func (app *application) adminOrderDetailFrag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	orders, err := app.backend.Orders(r.Context())
	if err != nil {
		app.log.Warn("admin: orders fetch failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "orders unavailable", http.StatusBadGateway)
		return
	}
	for _, o := range orders {
		if o.ID == id {
			app.renderFragment(w, "admin_orders", "admin_order_detail", o)
			return
		}
	}
	http.NotFound(w, r)
}

type adminShippingData struct {
	Settings   backend.ShippingSettings
	LoadFailed bool
}

func (app *application) adminShippingHandler(w http.ResponseWriter, r *http.Request) {
	var data adminShippingData
	settings, err := app.backend.Shipping(r.Context())
	if err != nil {
		app.log.Warn("admin: shipping fetch failed", zap.Error(err))
		data.LoadFailed = true
	}
	data.Settings = settings
	app.renderPage(w, r, "admin_settings", "Settings", data)
}

func (app *application) adminShippingSaveHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/admin/settings", "Invalid form submission.", "error")
		return
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("cost")), 64)
	if err != nil || cost < 0 {
		redirectWithNotice(w, r, "/admin/settings", "Shipping cost must be a non-negative number.", "error")
		return
	}
	settings := backend.ShippingSettings{
		Method:            strings.TrimSpace(r.PostFormValue("method")),
		Cost:              cost,
		EstimatedDelivery: strings.TrimSpace(r.PostFormValue("estimated_delivery")),
	}
	if settings.Method == "" {
		redirectWithNotice(w, r, "/admin/settings", "Shipping method is required.", "error")
		return
	}

	if err := app.backend.SaveShipping(r.Context(), settings); err != nil {
		app.log.Error("admin: save shipping failed", zap.Error(err))
		redirectWithNotice(w, r, "/admin/settings", "Could not save shipping settings.", "error")
		return
	}
	redirectWithNotice(w, r, "/admin/settings", "Shipping settings saved.", "success")
}

func (app *application) adminContentHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPage(w, r, "admin_content", "Site Content", app.siteContent(r.Context()))
}

func (app *application) adminContentSaveHandler(w http.ResponseWriter, r *http.Request) {
	if app.content == nil {
		redirectWithNotice(w, r, "/admin/content", "Content storage is not configured.", "error")
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/admin/content", "Invalid form submission.", "error")
		return
	}
	c := content.SiteContent{
		HeroTitle:       strings.TrimSpace(r.PostFormValue("hero_title")),
		HeroDescription: r.PostFormValue("hero_description"),
		HeroButton:      strings.TrimSpace(r.PostFormValue("hero_button")),
		SiteTitle:       strings.TrimSpace(r.PostFormValue("site_title")),
		SiteDescription: strings.TrimSpace(r.PostFormValue("site_description")),
	}
	if c.SiteTitle == "" {
		redirectWithNotice(w, r, "/admin/content", "Site title is required.", "error")
		return
	}

	if err := app.content.Save(r.Context(), c); err != nil {
		app.log.Error("admin: save content failed", zap.Error(err))
		redirectWithNotice(w, r, "/admin/content", "Could not save site content.", "error")
		return
	}
	redirectWithNotice(w, r, "/admin/content", "Site content saved.", "success")
}
