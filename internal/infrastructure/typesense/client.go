// Package typesense is the HTTP client for the hosted product index.
package typesense

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/metrics"
)

const (
	apiKeyHeader = "X-TYPESENSE-API-KEY"

	// defaultQueryBy is the searchable field list for plain searches.
	defaultQueryBy = "name,company,product_type,tags"

	// facetBy is the facet field list returned with every search.
	facetBy = "main_category,product_type,company,form"

	// defaultSort is descending text-match relevance.
	defaultSort = "_text_match:desc"

	// Scan searches weight the product-type field far above the rest and
	// allow prefix matching only on it.
	scanQueryBy = "product_type,name,tags,form"
	scanWeights = "10,3,2,1"
	scanPrefix  = "true,false,false,false"

	defaultPerPage = 20
	requestTimeout = 30 * time.Second
)

// Client handles communication with the Typesense search API.
type Client struct {
	httpClient  *http.Client
	host        string
	apiKey      string
	collection  string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a search client for one collection. The host must carry
// a scheme; config upgrades plain hosts to https before we get here.
func NewClient(host, apiKey, collection string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		host:        strings.TrimRight(host, "/"),
		apiKey:      apiKey,
		collection:  collection,
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:      logger,
	}
}

// SearchProducts issues one parameterized search request.
func (c *Client) SearchProducts(ctx context.Context, params domain.SearchParameters) (*domain.SearchResponse, error) {
	query := params.Query
	if query == "" {
		query = "*"
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("query_by", defaultQueryBy)
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))
	values.Set("facet_by", facetBy)
	values.Set("sort_by", sortBy)
	if filter := buildFilter(params); filter != "" {
		values.Set("filter_by", filter)
	}

	return c.doSearch(ctx, values, "search")
}

// SearchWeighted issues the scan-tuned search: product type dominates the
// field weighting and is the only field with prefix matching.
func (c *Client) SearchWeighted(ctx context.Context, query string, perPage int) (*domain.SearchResponse, error) {
	if query == "" {
		query = "*"
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("query_by", scanQueryBy)
	values.Set("query_by_weights", scanWeights)
	values.Set("prefix", scanPrefix)
	values.Set("page", "1")
	values.Set("per_page", strconv.Itoa(perPage))
	values.Set("facet_by", facetBy)
	values.Set("sort_by", defaultSort)

	return c.doSearch(ctx, values, "scan")
}

// Search is sugar for a query-only search with the default page size.
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	return c.SearchProducts(ctx, domain.SearchParameters{Query: query})
}

// SearchByCategory is sugar for a query restricted to one main category.
func (c *Client) SearchByCategory(ctx context.Context, query, mainCategory string) (*domain.SearchResponse, error) {
	return c.SearchProducts(ctx, domain.SearchParameters{Query: query, MainCategory: mainCategory})
}

// SearchByProductType is sugar for a query restricted to one product type.
func (c *Client) SearchByProductType(ctx context.Context, query, productType string) (*domain.SearchResponse, error) {
	return c.SearchProducts(ctx, domain.SearchParameters{Query: query, ProductType: productType})
}

// buildFilter AND-joins the per-field equality filters and the price range
// filter. Price supports min-only (>=), max-only (<=) and inclusive range
// forms.
func buildFilter(params domain.SearchParameters) string {
	var clauses []string
	if params.ProductType != "" {
		clauses = append(clauses, fmt.Sprintf("product_type:=%s", params.ProductType))
	}
	if params.MainCategory != "" {
		clauses = append(clauses, fmt.Sprintf("main_category:=%s", params.MainCategory))
	}
	if params.Company != "" {
		clauses = append(clauses, fmt.Sprintf("company:=%s", params.Company))
	}

	switch {
	case params.PriceMin != nil && params.PriceMax != nil:
		clauses = append(clauses, fmt.Sprintf("price:[%s..%s]",
			formatPrice(*params.PriceMin), formatPrice(*params.PriceMax)))
	case params.PriceMin != nil:
		clauses = append(clauses, fmt.Sprintf("price:>=%s", formatPrice(*params.PriceMin)))
	case params.PriceMax != nil:
		clauses = append(clauses, fmt.Sprintf("price:<=%s", formatPrice(*params.PriceMax)))
	}

	return strings.Join(clauses, " && ")
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// apiErrorPayload is the error body shape Typesense returns on failure.
type apiErrorPayload struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// doSearch executes one GET against the documents/search endpoint and
// decodes the response.
func (c *Client) doSearch(ctx context.Context, values url.Values, kind string) (*domain.SearchResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/collections/%s/documents/search?%s",
		c.host, url.PathEscape(c.collection), values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	metrics.SearchRequests.WithLabelValues(kind).Inc()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SearchErrors.WithLabelValues(kind).Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SearchErrors.WithLabelValues(kind).Inc()
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrSearchAPIFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SearchErrors.WithLabelValues(kind).Inc()
		var payload apiErrorPayload
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			return nil, &domain.APIError{
				StatusCode: resp.StatusCode,
				Message:    payload.Message,
				Code:       payload.Code,
			}
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchAPIFailure, resp.StatusCode)
	}

	var searchResp domain.SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		metrics.SearchErrors.WithLabelValues(kind).Inc()
		// json errors carry the offending field path and type mismatch;
		// keep them in the chain for diagnosis.
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.logger.Debug("search completed",
		zap.String("kind", kind),
		zap.String("q", values.Get("q")),
		zap.Int("found", searchResp.Found),
		zap.Int("timeMs", searchResp.SearchTimeMS))

	return &searchResp, nil
}
