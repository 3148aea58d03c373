// Package backend holds the thin REST passthrough clients the admin console
// uses for everything that is not the product catalog read path: users,
// orders, shipping settings, and product mutations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

// Client issues admin CRUD calls against the API service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// User is an account record as shown in the admin users table.
type User struct {
	ID       string
	Username string
	Email    string
	Role     string
	Status   string
}

// NewUser carries the add-user form fields.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// NewProduct carries the add-product form fields.
type NewProduct struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

// BillingInfo is the order's customer block.
type BillingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// OrderLine is one purchased product within an order.
type OrderLine struct {
	Name  string
	Price float64
	Qty   int
}

// Subtotal returns price times quantity for the line.
func (l OrderLine) Subtotal() float64 { return l.Price * float64(l.Qty) }

// Order is a placed order as listed in the admin console.
type Order struct {
	ID        string
	Billing   BillingInfo
	Lines     []OrderLine
	Total     float64
	Status    string
	CreatedAt time.Time
}

// ShippingSettings mirrors the backend's store-wide shipping configuration.
type ShippingSettings struct {
	Method            string  `json:"method"`
	Cost              float64 `json:"cost"`
	EstimatedDelivery string  `json:"estimatedDelivery"`
}

// Users lists all accounts.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var payload []userPayload
	if err := c.getJSON(ctx, "users", &payload); err != nil {
		return nil, err
	}
	users := make([]User, 0, len(payload))
	for _, item := range payload {
		users = append(users, item.toUser())
	}
	return users, nil
}

// CreateUser registers a new account with status defaulted to active.
func (c *Client) CreateUser(ctx context.Context, user NewUser) error {
	if user.Status == "" {
		user.Status = "active"
	}
	return c.send(ctx, http.MethodPost, "users", user)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "users/"+url.PathEscape(id), nil)
}

// CreateProduct adds a catalog record with status defaulted to active.
func (c *Client) CreateProduct(ctx context.Context, product NewProduct) error {
	if product.Status == "" {
		product.Status = "active"
	}
	return c.send(ctx, http.MethodPost, "products", product)
}

// DeleteProduct removes a catalog record.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "products/"+url.PathEscape(id), nil)
}

// Orders lists placed orders.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var payload []orderPayload
	if err := c.getJSON(ctx, "orders", &payload); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(payload))
	for _, item := range payload {
		orders = append(orders, item.toOrder())
	}
	return orders, nil
}

// Shipping fetches the store-wide shipping settings.
func (c *Client) Shipping(ctx context.Context) (ShippingSettings, error) {
	var settings ShippingSettings
	if err := c.getJSON(ctx, "api/shipping", &settings); err != nil {
		return ShippingSettings{}, err
	}
	return settings, nil
}

// SaveShipping replaces the store-wide shipping settings.
func (c *Client) SaveShipping(ctx context.Context, settings ShippingSettings) error {
	return c.send(ctx, http.MethodPut, "api/shipping", settings)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("backend: %s status %d: %s", path, resp.StatusCode, drainError(resp.Body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return err
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("backend: %s %s status %d: %s", method, path, resp.StatusCode, drainError(resp.Body))
	}
	return nil
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
