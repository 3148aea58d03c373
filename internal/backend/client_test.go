package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersDecodesMixedIdentifiers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"_id":"u1","username":"ana","email":"ana@example.com","role":"admin","status":"active"},
			{"id":7,"username":"ben","email":"ben@example.com","role":"customer","status":"active"}
		]`))
	}))
	defer srv.Close()

	users, err := NewClient(srv.URL).Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "7", users[1].ID)
	assert.Equal(t, "ben", users[1].Username)
}

func TestCreateUserDefaultsStatus(t *testing.T) {
	var got NewUser
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).CreateUser(context.Background(), NewUser{
		Username: "ana", Email: "ana@example.com", Password: "pw", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
}

func TestDeleteProductEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, http.MethodDelete, r.Method)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).DeleteProduct(context.Background(), "a b/c"))
	assert.Equal(t, "/products/a%20b%2Fc", gotPath)
}

func TestOrdersDecodeLinesAndDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{
			"_id":"o1",
			"billingInfo":{"name":"Ana","email":"ana@example.com","phone":"123"},
			"products":[
				{"product":{"name":"Wax Stamp","price":12.5},"quantity":2},
				{"snapshot":{"name":"Old Envelope","price":"2"},"quantity":1},
				{"quantity":3}
			],
			"total":27,
			"createdAt":"2026-08-30T10:00:00Z"
		}]`))
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL).Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "pending", o.Status) // missing status defaults
	assert.Equal(t, 27.0, o.Total)
	assert.False(t, o.CreatedAt.IsZero())

	require.Len(t, o.Lines, 3)
	assert.Equal(t, "Wax Stamp", o.Lines[0].Name)
	assert.Equal(t, 25.0, o.Lines[0].Subtotal())
	assert.Equal(t, "Old Envelope", o.Lines[1].Name)
	assert.Equal(t, 2.0, o.Lines[1].Price)
	assert.Equal(t, "Unknown", o.Lines[2].Name)
}

func TestShippingRoundTrip(t *testing.T) {
	var saved ShippingSettings
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/shipping", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"method":"Courier","cost":9.99,"estimatedDelivery":"2-4 days"}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	settings, err := c.Shipping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Courier", settings.Method)
	assert.Equal(t, 9.99, settings.Cost)

	settings.Cost = 12
	require.NoError(t, c.SaveShipping(context.Background(), settings))
	assert.Equal(t, 12.0, saved.Cost)
}

func TestErrorsCarryStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Users(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "nope")
}
