package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/metrics"
	"github.com/kendall-wood/blackbuy-backend/internal/taxonomy"
)

const (
	// Pass caps and the pool thresholds that trigger the widening passes.
	passOneCap        = 50
	passTwoCap        = 30
	passThreeCap      = 20
	broadenThreshold  = 20
	fallbackThreshold = 10

	matchAllQuery = "*"
)

// ScanService maximizes recall for the scan-to-match flow with up to three
// sequential search passes of widening scope. Passes are data-dependent, so
// they never run concurrently; a failure in any pass fails the retrieval.
type ScanService struct {
	search domain.SearchGateway
	logger *zap.Logger
}

// NewScanService creates a scan service over the given search gateway.
func NewScanService(search domain.SearchGateway, logger *zap.Logger) *ScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{
		search: search,
		logger: logger,
	}
}

// MatchCandidates runs the multi-pass retrieval for one classification.
// The returned pool is deduplicated by product id and order-preserving:
// pass-1 results first, then pass-2 additions, then pass-3 additions.
func (s *ScanService) MatchCandidates(ctx context.Context, result domain.ClassificationResult, limit int) ([]domain.Product, error) {
	if result.ProductType == "" {
		return nil, domain.ErrInvalidRequest
	}

	cap1 := passOneCap
	if limit > 0 && limit < cap1 {
		cap1 = limit
	}

	// Pass 1: weighted search on the product type, narrowed by form when known.
	query := result.ProductType
	if result.Form != "" {
		query = result.ProductType + " " + result.Form
	}
	metrics.ScanPasses.WithLabelValues("1").Inc()
	resp, err := s.search.SearchWeighted(ctx, query, cap1)
	if err != nil {
		return nil, fmt.Errorf("scan pass 1: %w", err)
	}

	pool := make([]domain.Product, 0, cap1)
	seen := make(map[string]bool)
	pool = mergeCandidates(pool, seen, resp.Products())

	s.logger.Debug("scan pass 1 complete",
		zap.String("query", query),
		zap.Int("pool", len(pool)))

	if len(pool) >= broadenThreshold {
		return pool, nil
	}

	// Pass 2: broaden to the parent category.
	category := taxonomy.MainCategoryFor(result.ProductType)
	broadQuery := matchAllQuery
	if result.Form != "" {
		broadQuery = result.Form
	}
	metrics.ScanPasses.WithLabelValues("2").Inc()
	resp, err = s.search.SearchProducts(ctx, domain.SearchParameters{
		Query:        broadQuery,
		Page:         1,
		PerPage:      passTwoCap,
		MainCategory: category,
	})
	if err != nil {
		return nil, fmt.Errorf("scan pass 2: %w", err)
	}
	pool = mergeCandidates(pool, seen, resp.Products())

	s.logger.Debug("scan pass 2 complete",
		zap.String("category", category),
		zap.Int("pool", len(pool)))

	if len(pool) >= fallbackThreshold {
		return pool, nil
	}

	// Pass 3: last resort on form, first known ingredient, or match-all.
	lastQuery := matchAllQuery
	switch {
	case result.Form != "":
		lastQuery = result.Form
	case len(result.Ingredients) > 0:
		lastQuery = result.Ingredients[0]
	}
	metrics.ScanPasses.WithLabelValues("3").Inc()
	resp, err = s.search.SearchProducts(ctx, domain.SearchParameters{
		Query:   lastQuery,
		Page:    1,
		PerPage: passThreeCap,
	})
	if err != nil {
		return nil, fmt.Errorf("scan pass 3: %w", err)
	}
	pool = mergeCandidates(pool, seen, resp.Products())

	s.logger.Debug("scan pass 3 complete",
		zap.String("query", lastQuery),
		zap.Int("pool", len(pool)))

	return pool, nil
}

// mergeCandidates appends products whose id is not already in the pool.
// Earlier passes keep their position; later passes never reorder them.
func mergeCandidates(pool []domain.Product, seen map[string]bool, products []domain.Product) []domain.Product {
	for _, product := range products {
		if seen[product.ID] {
			continue
		}
		seen[product.ID] = true
		pool = append(pool, product)
	}
	return pool
}
