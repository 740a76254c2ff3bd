package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchGateway defines the interface for the hosted product-search service.
type SearchGateway interface {
	// SearchProducts issues one parameterized search request.
	SearchProducts(ctx context.Context, params SearchParameters) (*SearchResponse, error)

	// SearchWeighted issues the scan-tuned search that weights the
	// product-type field far above name, tags and form.
	SearchWeighted(ctx context.Context, query string, perPage int) (*SearchResponse, error)
}

// FeedbackSubmitter forwards user feedback to the backend.
type FeedbackSubmitter interface {
	Submit(ctx context.Context, submission FeedbackSubmission) error
}
