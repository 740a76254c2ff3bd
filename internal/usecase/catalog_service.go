package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/infrastructure/retry"
	"github.com/kendall-wood/blackbuy-backend/internal/metrics"
)

const featuredCacheKey = "catalog:featured"

// CatalogConfig tunes the featured-catalog sampler. Zero values fall back to
// the defaults below.
type CatalogConfig struct {
	PageSize     int
	SampledPages int
	CarouselSize int
	GridSize     int
	MaxPerBrand  int
	Freshness    time.Duration
	FetchRetries int
}

func (c CatalogConfig) withDefaults() CatalogConfig {
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.SampledPages <= 0 {
		c.SampledPages = 5
	}
	if c.CarouselSize <= 0 {
		c.CarouselSize = 12
	}
	if c.GridSize <= 0 {
		c.GridSize = 24
	}
	if c.MaxPerBrand <= 0 {
		c.MaxPerBrand = 2
	}
	if c.Freshness <= 0 {
		c.Freshness = 5 * time.Minute
	}
	if c.FetchRetries <= 0 {
		c.FetchRetries = 2
	}
	return c
}

// FeaturedSelection is the published brand-diverse preview: one product per
// brand in the carousel, at most two per brand in the grid, disjoint by id.
type FeaturedSelection struct {
	Carousel []domain.Product `json:"carousel"`
	Grid     []domain.Product `json:"grid"`
	LoadedAt time.Time        `json:"loadedAt"`
}

// CatalogService samples random catalog pages and publishes a brand-diverse
// carousel and grid, refreshed at most once per freshness window. At most one
// load is ever in flight; a failed load leaves the previous selection intact.
type CatalogService struct {
	search domain.SearchGateway
	cache  domain.CacheRepository
	cfg    CatalogConfig
	logger *zap.Logger
	rng    *rand.Rand

	mu        sync.Mutex
	loading   bool
	loaded    bool
	selection FeaturedSelection
}

// NewCatalogService creates a catalog service. cache may be nil, in which
// case the selection lives only in memory.
func NewCatalogService(search domain.SearchGateway, cache domain.CacheRepository, cfg CatalogConfig, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		search: search,
		cache:  cache,
		cfg:    cfg.withDefaults(),
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Featured returns copies of the current carousel and grid.
func (s *CatalogService) Featured() FeaturedSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FeaturedSelection{
		Carousel: append([]domain.Product(nil), s.selection.Carousel...),
		Grid:     append([]domain.Product(nil), s.selection.Grid...),
		LoadedAt: s.selection.LoadedAt,
	}
}

// LoadFeatured refreshes the featured selection. It is a no-op while the
// cached selection is younger than the freshness window (unless force is
// set) and while another load is in flight.
func (s *CatalogService) LoadFeatured(ctx context.Context, force bool) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	if !force && s.loaded && time.Since(s.selection.LoadedAt) < s.cfg.Freshness {
		s.mu.Unlock()
		metrics.CatalogLoads.WithLabelValues("fresh").Inc()
		return nil
	}
	warm := !s.loaded && !force
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if warm {
		if selection, ok := s.warmFromCache(ctx); ok {
			s.publish(selection, false)
			metrics.CatalogLoads.WithLabelValues("fresh").Inc()
			return nil
		}
	}

	start := time.Now()
	selection, err := s.load(ctx)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("error").Inc()
		s.logger.Warn("featured catalog load failed", zap.Error(err))
		return err
	}

	s.publish(selection, true)
	metrics.CatalogLoads.WithLabelValues("ok").Inc()
	metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())
	return nil
}

// publish installs the selection; persist additionally writes it through the
// cache port so restarts within the freshness window skip the fan-out.
func (s *CatalogService) publish(selection FeaturedSelection, persist bool) {
	s.mu.Lock()
	s.selection = selection
	s.loaded = true
	s.mu.Unlock()

	if persist && s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, featuredCacheKey, selection, s.cfg.Freshness); err != nil {
			s.logger.Warn("featured selection cache write failed", zap.Error(err))
		}
	}
}

// warmFromCache recovers a previously published selection through the cache
// port. Cached values come back JSON-shaped, so round-trip through json.
func (s *CatalogService) warmFromCache(ctx context.Context) (FeaturedSelection, bool) {
	if s.cache == nil {
		return FeaturedSelection{}, false
	}
	value, err := s.cache.Get(ctx, featuredCacheKey)
	if err != nil || value == nil {
		return FeaturedSelection{}, false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return FeaturedSelection{}, false
	}
	var selection FeaturedSelection
	if err := json.Unmarshal(raw, &selection); err != nil {
		return FeaturedSelection{}, false
	}
	if len(selection.Carousel) == 0 && len(selection.Grid) == 0 {
		return FeaturedSelection{}, false
	}
	if time.Since(selection.LoadedAt) >= s.cfg.Freshness {
		return FeaturedSelection{}, false
	}
	return selection, true
}

// load performs the whole sampling round: count, pick pages, fetch them
// concurrently, merge and build the diverse selection.
func (s *CatalogService) load(ctx context.Context) (FeaturedSelection, error) {
	countResp, err := s.search.SearchProducts(ctx, domain.SearchParameters{
		Query:   matchAllQuery,
		Page:    1,
		PerPage: 1,
	})
	if err != nil {
		return FeaturedSelection{}, fmt.Errorf("catalog count: %w", err)
	}

	totalPages := countResp.Found / s.cfg.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	s.mu.Lock()
	pages := make([]int, s.cfg.SampledPages)
	for i := range pages {
		pages[i] = s.rng.Intn(totalPages) + 1
	}
	s.mu.Unlock()

	// Price is the only sortable axis; alternate the direction so the
	// sampled pages do not all come from the same end of the catalog.
	results := make([][]domain.Product, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	for i, page := range pages {
		sortBy := "price:asc"
		if i%2 == 1 {
			sortBy = "price:desc"
		}
		g.Go(func() error {
			resp, err := retry.Do(gctx, s.cfg.FetchRetries, func(ctx context.Context) (*domain.SearchResponse, error) {
				return s.search.SearchProducts(ctx, domain.SearchParameters{
					Query:   matchAllQuery,
					Page:    page,
					PerPage: s.cfg.PageSize,
					SortBy:  sortBy,
				})
			})
			if err != nil {
				return fmt.Errorf("catalog page %d: %w", page, err)
			}
			results[i] = resp.Products()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FeaturedSelection{}, err
	}

	var merged []domain.Product
	for _, products := range results {
		merged = append(merged, products...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildSelection(merged), nil
}

// buildSelection shuffles and deduplicates the merged pool, then assembles
// the brand-diverse carousel and grid. Caller holds s.mu for rng access.
func (s *CatalogService) buildSelection(merged []domain.Product) FeaturedSelection {
	s.rng.Shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})

	// Dedup by id in shuffle order, first occurrence wins.
	pool := make([]domain.Product, 0, len(merged))
	seen := make(map[string]bool)
	for _, product := range merged {
		if seen[product.ID] {
			continue
		}
		seen[product.ID] = true
		pool = append(pool, product)
	}

	// Carousel: one random product for each of up to CarouselSize brands.
	byBrand := make(map[string][]domain.Product)
	var brands []string
	for _, product := range pool {
		if _, ok := byBrand[product.Company]; !ok {
			brands = append(brands, product.Company)
		}
		byBrand[product.Company] = append(byBrand[product.Company], product)
	}
	s.rng.Shuffle(len(brands), func(i, j int) {
		brands[i], brands[j] = brands[j], brands[i]
	})
	if len(brands) > s.cfg.CarouselSize {
		brands = brands[:s.cfg.CarouselSize]
	}

	carousel := make([]domain.Product, 0, len(brands))
	carouselIDs := make(map[string]bool)
	for _, brand := range brands {
		candidates := byBrand[brand]
		pick := candidates[s.rng.Intn(len(candidates))]
		carousel = append(carousel, pick)
		carouselIDs[pick.ID] = true
	}
	s.rng.Shuffle(len(carousel), func(i, j int) {
		carousel[i], carousel[j] = carousel[j], carousel[i]
	})

	// Grid: remaining pool, shuffled, at most MaxPerBrand per brand.
	remaining := make([]domain.Product, 0, len(pool))
	for _, product := range pool {
		if !carouselIDs[product.ID] {
			remaining = append(remaining, product)
		}
	}
	s.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	grid := make([]domain.Product, 0, s.cfg.GridSize)
	brandCount := make(map[string]int)
	for _, product := range remaining {
		if len(grid) == s.cfg.GridSize {
			break
		}
		if brandCount[product.Company] >= s.cfg.MaxPerBrand {
			continue
		}
		brandCount[product.Company]++
		grid = append(grid, product)
	}

	return FeaturedSelection{
		Carousel: carousel,
		Grid:     grid,
		LoadedAt: time.Now(),
	}
}
