package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 8 * time.Second

// FetchError indicates the product collection could not be retrieved: either
// the transport failed or the backend answered with a non-success status.
type FetchError struct {
	Status int
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog: fetch products: %v", e.Err)
	}
	return fmt.Sprintf("catalog: fetch products: status %d: %s", e.Status, e.Detail)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError indicates the response body was not a JSON array of products.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog: parse products: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client fetches product collections from the backend API. It never caches:
// catalog data changes through the admin console, so every call is a fresh
// round trip.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient constructs a catalog client against the given backend base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logger,
	}
}

// FetchCatalog retrieves the product collection, filtered by category when one
// is supplied. The category value is percent-encoded into the query string.
func (c *Client) FetchCatalog(ctx context.Context, category string) ([]Product, error) {
	endpoint, err := url.JoinPath(c.baseURL, "products")
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	if category = strings.TrimSpace(category); category != "" {
		q := url.Values{}
		q.Set("category", category)
		endpoint = endpoint + "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, Detail: drainError(resp.Body)}
	}

	var payload []productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ParseError{Err: err}
	}

	products := make([]Product, 0, len(payload))
	for _, item := range payload {
		p := item.toProduct()
		if !p.PriceOK {
			c.log.Warn("product has missing or non-numeric price",
				zap.String("id", p.ID),
				zap.String("name", p.Name))
		}
		products = append(products, p)
	}
	return products, nil
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
