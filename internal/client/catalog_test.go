package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/breadcrumbs/internal/config"
	"storefront/breadcrumbs/internal/domain"
)

const productResponse = `{
  "data": {
    "products": {
      "items": [{
        "sku": "24-MB01",
        "name": "Joust Duffle Bag",
        "url_key": "joust-duffle-bag",
        "categories": [
          {"id": 3, "name": "Gear", "url_path": "gear", "breadcrumbs": null},
          {"id": 4, "name": "Bags", "url_path": "gear/bags", "breadcrumbs": [
            {"category_id": 3, "category_name": "Gear", "category_level": 2, "category_url_path": "gear"}
          ]},
          {"id": 7, "name": "Hidden", "url_path": null, "breadcrumbs": []}
        ]
      }]
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, legacyURL string) (CatalogClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.CatalogConfig{
		GraphQLURL:   srv.URL + "/graphql",
		StoreCode:    "default",
		Timeout:      5,
		QuotaBackoff: 60,
	}
	if legacyURL != "" {
		cfg.LegacyPageURL = srv.URL + legacyURL
	}

	c := NewCatalogClient(cfg, config.StorefrontConfig{URLSuffix: ".html"})
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestGetProduct(t *testing.T) {
	var gotVars map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "default", r.Header.Get("Store"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "breadcrumbs")
		gotVars = req.Variables

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productResponse))
	}, "")

	product, err := c.GetProduct(context.Background(), "24-MB01")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"sku": "24-MB01"}, gotVars)
	assert.Equal(t, "Joust Duffle Bag", product.Name)
	require.Len(t, product.Categories, 3)
	assert.Nil(t, product.Categories[0].Breadcrumbs)
	assert.Equal(t, "", product.Categories[2].URLPath)
	assert.Equal(t, domain.CategoryBreadcrumb{
		CategoryID: 3, Name: "Gear", Level: 2, URLPath: "gear",
	}, product.Categories[1].Breadcrumbs[0])
}

func TestGetProduct_EmptySKU(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "")

	_, err := c.GetProduct(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptySKU)
}

func TestGetProduct_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"products":{"items":[]}}}`))
	}, "")

	_, err := c.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetProduct_GraphQLErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"field missing"},{"message":"bad store"}]}`))
	}, "")

	_, err := c.GetProduct(context.Background(), "24-MB01")

	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, []string{"field missing", "bad store"}, gqlErr.Messages)
}

func TestGetProduct_LegacyFallback(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/graphql":
			_, _ = w.Write([]byte(`{"data":{"products":{"items":[]}}}`))
		case "/legacy/24-MB01":
			_, _ = w.Write([]byte(`<h1>Bag</h1><nav class="breadcrumbs"><a href="/gear.html" data-category-id="3">Gear</a><a href="/gear/bags.html" data-category-id="4">Bags</a></nav>`))
		default:
			http.NotFound(w, r)
		}
	}, "/legacy/%s")

	product, err := c.GetProduct(context.Background(), "24-MB01")
	require.NoError(t, err)

	assert.Equal(t, "24-MB01", product.SKU)
	require.Len(t, product.Categories, 1)
	assert.Equal(t, "gear/bags", product.Categories[0].URLPath)
	assert.Equal(t, "gear", product.Categories[0].Breadcrumbs[0].URLPath)
}

func TestGetProduct_QuotaOpensCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, "")

	_, err := c.GetProduct(context.Background(), "24-MB01")
	require.ErrorIs(t, err, ErrQuotaExceeded)
	after := calls.Load()

	_, err = c.GetProduct(context.Background(), "24-MB01")
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, after, calls.Load(), "breaker should block the second request")
}

func TestGetProduct_HTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, "")

	_, err := c.GetProduct(context.Background(), "24-MB01")
	assert.ErrorContains(t, err, "HTTP error: 502")
}
