package domain

// SearchParameters is the value object for a single search request against
// the product index. Page is 1-based.
type SearchParameters struct {
	Query        string   `json:"query"`
	Page         int      `json:"page"`
	PerPage      int      `json:"perPage"`
	ProductType  string   `json:"productType,omitempty"`
	MainCategory string   `json:"mainCategory,omitempty"`
	Company      string   `json:"company,omitempty"`
	PriceMin     *float64 `json:"priceMin,omitempty"`
	PriceMax     *float64 `json:"priceMax,omitempty"`
	SortBy       string   `json:"sortBy,omitempty"`
}

// RequestParams echoes the request as reported by the search service.
type RequestParams struct {
	CollectionName string `json:"collection_name"`
	PerPage        int    `json:"per_page"`
	Q              string `json:"q"`
}

// Hit wraps a matched product together with its optional relevance score.
type Hit struct {
	Document  Product `json:"document"`
	TextMatch *int64  `json:"text_match,omitempty"`
}

// SearchResponse is the decoded response of one search request. Hit order is
// the service's relevance ranking unless an explicit sort was requested.
type SearchResponse struct {
	Found         int           `json:"found"`
	OutOf         int           `json:"out_of"`
	Page          int           `json:"page"`
	RequestParams RequestParams `json:"request_params"`
	SearchTimeMS  int           `json:"search_time_ms"`
	Hits          []Hit         `json:"hits"`
}

// Products flattens the hits to their documents in server-returned order.
func (r *SearchResponse) Products() []Product {
	products := make([]Product, 0, len(r.Hits))
	for _, hit := range r.Hits {
		products = append(products, hit.Document)
	}
	return products
}
