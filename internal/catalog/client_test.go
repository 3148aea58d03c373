package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCatalogDecodesCollection(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"x","name":"Linen Notebook","price":"45","category":"Notebooks","image":""},
			{"id":"y","name":"Wax Stamp","price":12.5,"category":"stamps","image":"stamp.jpg"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	products, err := c.FetchCatalog(context.Background(), "note books")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "/products", gotPath)
	assert.Equal(t, "category=note+books", gotQuery)

	assert.Equal(t, "x", products[0].ID)
	assert.Equal(t, 45.0, products[0].Price)
	assert.True(t, products[0].PriceOK)
	assert.Equal(t, "y", products[1].ID)
	assert.Equal(t, 12.5, products[1].Price)
}

func TestFetchCatalogOmitsEmptyCategory(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	products, err := c.FetchCatalog(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, "", gotQuery)
}

func TestFetchCatalogNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.FetchCatalog(context.Background(), "")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.Status)
	assert.Equal(t, "boom", fetchErr.Detail)
}

func TestFetchCatalogTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, nil)
	_, err := c.FetchCatalog(context.Background(), "")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.NotNil(t, fetchErr.Err)
}

func TestFetchCatalogMalformedBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"non-array", `{"products":[]}`},
		{"truncated", `[{"id":"x"`},
		{"not json", `<html>offline</html>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, nil)
			_, err := c.FetchCatalog(context.Background(), "")
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.False(t, errors.As(err, new(*FetchError)))
		})
	}
}
