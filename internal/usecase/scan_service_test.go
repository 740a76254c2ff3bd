package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
)

// fakeGateway is a scriptable search gateway shared by the scan and catalog
// tests. Call records are mutex-guarded because the catalog fan-out hits it
// from several goroutines.
type fakeGateway struct {
	mu         sync.Mutex
	searchFn   func(ctx context.Context, params domain.SearchParameters) (*domain.SearchResponse, error)
	weightedFn func(ctx context.Context, query string, perPage int) (*domain.SearchResponse, error)
	searches   []domain.SearchParameters
	weighted   []weightedCall
}

type weightedCall struct {
	query   string
	perPage int
}

func (f *fakeGateway) SearchProducts(ctx context.Context, params domain.SearchParameters) (*domain.SearchResponse, error) {
	f.mu.Lock()
	f.searches = append(f.searches, params)
	f.mu.Unlock()
	return f.searchFn(ctx, params)
}

func (f *fakeGateway) SearchWeighted(ctx context.Context, query string, perPage int) (*domain.SearchResponse, error) {
	f.mu.Lock()
	f.weighted = append(f.weighted, weightedCall{query: query, perPage: perPage})
	f.mu.Unlock()
	return f.weightedFn(ctx, query, perPage)
}

func (f *fakeGateway) searchCalls() []domain.SearchParameters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SearchParameters(nil), f.searches...)
}

func (f *fakeGateway) weightedCalls() []weightedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]weightedCall(nil), f.weighted...)
}

// makeProducts builds n distinct products with ids prefix-0 .. prefix-(n-1).
func makeProducts(prefix string, n int) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{
			ID:      fmt.Sprintf("%s-%d", prefix, i),
			Name:    fmt.Sprintf("%s product %d", prefix, i),
			Company: fmt.Sprintf("brand-%d", i%4),
		}
	}
	return products
}

func respWith(products []domain.Product) *domain.SearchResponse {
	resp := &domain.SearchResponse{Found: len(products)}
	for _, product := range products {
		resp.Hits = append(resp.Hits, domain.Hit{Document: product})
	}
	return resp
}

func TestMatchCandidatesRequiresProductType(t *testing.T) {
	service := NewScanService(&fakeGateway{}, nil)

	_, err := service.MatchCandidates(context.Background(), domain.ClassificationResult{}, 50)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestMatchCandidatesSinglePass(t *testing.T) {
	gateway := &fakeGateway{
		weightedFn: func(_ context.Context, _ string, _ int) (*domain.SearchResponse, error) {
			return respWith(makeProducts("p1", 25)), nil
		},
	}
	service := NewScanService(gateway, nil)

	pool, err := service.MatchCandidates(context.Background(), domain.ClassificationResult{
		ProductType: "Shampoo",
		Form:        "liquid",
	}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool) != 25 {
		t.Errorf("pool size = %d, want 25", len(pool))
	}

	calls := gateway.weightedCalls()
	if len(calls) != 1 {
		t.Fatalf("weighted calls = %d, want 1", len(calls))
	}
	if calls[0].query != "Shampoo liquid" {
		t.Errorf("query = %q, want type narrowed by form", calls[0].query)
	}
	if calls[0].perPage != 50 {
		t.Errorf("perPage = %d, want 50", calls[0].perPage)
	}
	if got := len(gateway.searchCalls()); got != 0 {
		t.Errorf("broadening passes ran %d times, want 0", got)
	}
}

func TestMatchCandidatesHonorsSmallLimit(t *testing.T) {
	gateway := &fakeGateway{
		weightedFn: func(_ context.Context, _ string, perPage int) (*domain.SearchResponse, error) {
			return respWith(makeProducts("p1", 24)), nil
		},
	}
	service := NewScanService(gateway, nil)

	if _, err := service.MatchCandidates(context.Background(), domain.ClassificationResult{ProductType: "Shampoo"}, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := gateway.weightedCalls(); calls[0].perPage != 5 {
		t.Errorf("perPage = %d, want limit 5", calls[0].perPage)
	}
}

func TestMatchCandidatesBroadensWhenThin(t *testing.T) {
	passOne := makeProducts("p1", 15)
	// Pass 2 returns 10 products, 5 of which duplicate pass 1.
	passTwo := append(append([]domain.Product(nil), passOne[:5]...), makeProducts("p2", 5)...)

	gateway := &fakeGateway{
		weightedFn: func(_ context.Context, _ string, _ int) (*domain.SearchResponse, error) {
			return respWith(passOne), nil
		},
		searchFn: func(_ context.Context, _ domain.SearchParameters) (*domain.SearchResponse, error) {
			return respWith(passTwo), nil
		},
	}
	service := NewScanService(gateway, nil)

	pool, err := service.MatchCandidates(context.Background(), domain.ClassificationResult{ProductType: "Shampoo"}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pool) != 20 {
		t.Errorf("pool size = %d, want 20 after dedup", len(pool))
	}
	for i, product := range passOne {
		if pool[i].ID != product.ID {
			t.Fatalf("pool[%d] = %q, pass-1 results must keep their order", i, pool[i].ID)
		}
	}

	calls := gateway.searchCalls()
	if len(calls) != 1 {
		t.Fatalf("search calls = %d, want only the broadening pass", len(calls))
	}
	if calls[0].Query != "*" {
		t.Errorf("broad query = %q, want * when no form is known", calls[0].Query)
	}
	if calls[0].MainCategory != "Hair Care" {
		t.Errorf("main category = %q, want Hair Care", calls[0].MainCategory)
	}
	if calls[0].PerPage != 30 {
		t.Errorf("perPage = %d, want 30", calls[0].PerPage)
	}
}

func TestMatchCandidatesFallbackPass(t *testing.T) {
	tests := []struct {
		name      string
		result    domain.ClassificationResult
		wantQuery string
	}{
		{
			name:      "form drives the last pass",
			result:    domain.ClassificationResult{ProductType: "Shampoo", Form: "liquid"},
			wantQuery: "liquid",
		},
		{
			name:      "first ingredient when no form",
			result:    domain.ClassificationResult{ProductType: "Shampoo", Ingredients: []string{"shea butter", "honey"}},
			wantQuery: "shea butter",
		},
		{
			name:      "match-all when nothing else survived",
			result:    domain.ClassificationResult{ProductType: "Shampoo"},
			wantQuery: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{
				weightedFn: func(_ context.Context, _ string, _ int) (*domain.SearchResponse, error) {
					return respWith(makeProducts("p1", 3)), nil
				},
				searchFn: func(_ context.Context, _ domain.SearchParameters) (*domain.SearchResponse, error) {
					return respWith(makeProducts("p1", 3)), nil
				},
			}
			service := NewScanService(gateway, nil)

			if _, err := service.MatchCandidates(context.Background(), tt.result, 50); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := gateway.searchCalls()
			if len(calls) != 2 {
				t.Fatalf("search calls = %d, want broadening and fallback passes", len(calls))
			}
			last := calls[1]
			if last.Query != tt.wantQuery {
				t.Errorf("fallback query = %q, want %q", last.Query, tt.wantQuery)
			}
			if last.PerPage != 20 {
				t.Errorf("perPage = %d, want 20", last.PerPage)
			}
			if last.MainCategory != "" {
				t.Errorf("main category = %q, want unfiltered fallback", last.MainCategory)
			}
		})
	}
}

func TestMatchCandidatesPropagatesPassErrors(t *testing.T) {
	upstream := errors.New("search down")

	t.Run("first pass", func(t *testing.T) {
		gateway := &fakeGateway{
			weightedFn: func(_ context.Context, _ string, _ int) (*domain.SearchResponse, error) {
				return nil, upstream
			},
		}
		service := NewScanService(gateway, nil)

		_, err := service.MatchCandidates(context.Background(), domain.ClassificationResult{ProductType: "Shampoo"}, 50)
		if !errors.Is(err, upstream) {
			t.Fatalf("err = %v, want wrapped upstream error", err)
		}
		if !strings.Contains(err.Error(), "pass 1") {
			t.Errorf("err = %v, want pass identified", err)
		}
	})

	t.Run("later pass", func(t *testing.T) {
		gateway := &fakeGateway{
			weightedFn: func(_ context.Context, _ string, _ int) (*domain.SearchResponse, error) {
				return respWith(makeProducts("p1", 3)), nil
			},
			searchFn: func(_ context.Context, _ domain.SearchParameters) (*domain.SearchResponse, error) {
				return nil, upstream
			},
		}
		service := NewScanService(gateway, nil)

		_, err := service.MatchCandidates(context.Background(), domain.ClassificationResult{ProductType: "Shampoo"}, 50)
		if !errors.Is(err, upstream) {
			t.Fatalf("err = %v, want wrapped upstream error", err)
		}
		if !strings.Contains(err.Error(), "pass 2") {
			t.Errorf("err = %v, want pass identified", err)
		}
	})
}
