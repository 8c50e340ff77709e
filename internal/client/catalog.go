package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/breadcrumbs/internal/config"
	"storefront/breadcrumbs/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const productCategoriesQuery = `query ProductCategories($sku: String!) {
  products(filter: { sku: { eq: $sku } }) {
    items {
      sku
      name
      url_key
      categories {
        id
        name
        url_path
        breadcrumbs {
          category_id
          category_name
          category_level
          category_url_path
        }
      }
    }
  }
}`

var ErrQuotaExceeded = errors.New("catalog quota exceeded")

// GraphQLError carries the messages of a GraphQL response that reported
// errors.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

type CatalogClient interface {
	GetProduct(ctx context.Context, sku string) (*domain.Product, error)
	Close() error
}

type catalogClient struct {
	rl         ratelimit.Limiter
	config     config.CatalogConfig
	httpClient *resty.Client
	parser     *pageParser
	breaker    *quotaBreaker
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Products struct {
			Items []domain.Product `json:"items"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewCatalogClient(cfg config.CatalogConfig, storefront config.StorefrontConfig) CatalogClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &catalogClient{
		rl:         rl,
		config:     cfg,
		httpClient: client,
		parser:     newPageParser(storefront.BasePath, storefront.URLSuffix),
		breaker:    newQuotaBreaker(time.Duration(cfg.QuotaBackoff) * time.Second),
	}
}

// GetProduct fetches a product and its category breadcrumbs. When the
// GraphQL API knows nothing about the SKU and a legacy page URL is
// configured, the legacy product page is scraped instead.
func (c *catalogClient) GetProduct(ctx context.Context, sku string) (*domain.Product, error) {
	if sku == "" {
		return nil, domain.ErrEmptySKU
	}

	product, err := c.queryProduct(ctx, sku)
	if errors.Is(err, domain.ErrProductNotFound) && c.config.LegacyPageURL != "" {
		log.Debugf("Product %s not in GraphQL catalog, trying legacy page", sku)
		return c.scrapeProduct(ctx, sku)
	}
	return product, err
}

func (c *catalogClient) queryProduct(ctx context.Context, sku string) (*domain.Product, error) {
	resp, err := c.do(ctx, c.httpClient.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Store", c.config.StoreCode).
		SetBody(graphQLRequest{
			Query:     productCategoriesQuery,
			Variables: map[string]any{"sku": sku},
		}), http.MethodPost, c.config.GraphQLURL)
	if err != nil {
		return nil, err
	}

	var result graphQLResponse
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(result.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range result.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return nil, gqlErr
	}

	for _, item := range result.Data.Products.Items {
		// The sku filter matches exactly, but configurable products may
		// also return their children.
		if item.SKU == sku || item.SKU == "" {
			product := item
			product.SKU = sku
			log.Debugf("Fetched product %s with %d categories", sku, len(product.Categories))
			return &product, nil
		}
	}

	return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrProductNotFound)
}

func (c *catalogClient) scrapeProduct(ctx context.Context, sku string) (*domain.Product, error) {
	pageURL := fmt.Sprintf(c.config.LegacyPageURL, url.PathEscape(sku))

	html, err := c.do(ctx, c.httpClient.R().SetHeader("Accept", "text/html"), http.MethodGet, pageURL)
	if err != nil {
		return nil, err
	}

	product, err := c.parser.ParseProductPage(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy page for %s: %w", sku, err)
	}
	if len(product.Categories) == 0 {
		return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrProductNotFound)
	}

	product.SKU = sku
	return product, nil
}

func (c *catalogClient) do(ctx context.Context, req *resty.Request, method, target string) (string, error) {
	if remaining := c.breaker.Remaining(); remaining > 0 {
		log.Debugf("🚫 Request to %s held back, quota backoff for %v more", target, remaining.Round(time.Second))
		return "", fmt.Errorf("%w: requests disabled for %v more", ErrQuotaExceeded, remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := req.SetContext(ctx).Execute(method, target)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		log.Warnf("🚫 Catalog answered 429 for %s", target)
		c.breaker.Trip()
		return "", ErrQuotaExceeded
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}

func (c *catalogClient) Close() error {
	return c.httpClient.Close()
}
