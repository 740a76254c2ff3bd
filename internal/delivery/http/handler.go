package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/usecase"
)

// minActionableConfidence is the threshold below which a classification is
// returned without running candidate retrieval.
const minActionableConfidence = 0.2

// TextClassifier produces a classification for recognized label text.
type TextClassifier interface {
	Classify(text string) domain.ClassificationResult
}

// ScanMatcher runs the multi-pass candidate retrieval for a classification.
type ScanMatcher interface {
	MatchCandidates(ctx context.Context, result domain.ClassificationResult, limit int) ([]domain.Product, error)
}

// CatalogProvider loads and serves the featured catalog selection.
type CatalogProvider interface {
	LoadFeatured(ctx context.Context, force bool) error
	Featured() usecase.FeaturedSelection
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier TextClassifier
	scan       ScanMatcher
	catalog    CatalogProvider
	search     domain.SearchGateway
	feedback   domain.FeedbackSubmitter
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	classifier TextClassifier,
	scan ScanMatcher,
	catalog CatalogProvider,
	search domain.SearchGateway,
	feedback domain.FeedbackSubmitter,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		classifier: classifier,
		scan:       scan,
		catalog:    catalog,
		search:     search,
		feedback:   feedback,
		logger:     logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "blackbuy-backend",
		"version": "1.0.0",
	})
}

type scanRequest struct {
	Text  string `json:"text" binding:"required"`
	Limit int    `json:"limit"`
}

// Scan classifies recognized label text and retrieves candidate products.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	classification := h.classifier.Classify(req.Text)

	if classification.Confidence < minActionableConfidence {
		c.JSON(http.StatusOK, gin.H{
			"classification": classification,
			"products":       []domain.Product{},
			"count":          0,
		})
		return
	}

	products, err := h.scan.MatchCandidates(c.Request.Context(), classification, req.Limit)
	if err != nil {
		h.respondUpstreamError(c, "scan retrieval failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classification": classification,
		"products":       products,
		"count":          len(products),
	})
}

type searchRequest struct {
	Query        string   `json:"query"`
	Page         int      `json:"page"`
	PerPage      int      `json:"perPage"`
	ProductType  string   `json:"productType"`
	MainCategory string   `json:"mainCategory"`
	Company      string   `json:"company"`
	PriceMin     *float64 `json:"priceMin"`
	PriceMax     *float64 `json:"priceMax"`
	SortBy       string   `json:"sortBy"`
}

// Search runs one parameterized search against the product index.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request"})
		return
	}

	resp, err := h.search.SearchProducts(c.Request.Context(), domain.SearchParameters{
		Query:        req.Query,
		Page:         req.Page,
		PerPage:      req.PerPage,
		ProductType:  req.ProductType,
		MainCategory: req.MainCategory,
		Company:      req.Company,
		PriceMin:     req.PriceMin,
		PriceMax:     req.PriceMax,
		SortBy:       req.SortBy,
	})
	if err != nil {
		h.respondUpstreamError(c, "search failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"found":        resp.Found,
		"page":         resp.Page,
		"searchTimeMs": resp.SearchTimeMS,
		"products":     resp.Products(),
	})
}

// FeaturedCatalog serves the brand-diverse carousel and grid. A failed
// refresh falls back to the previous selection, flagged stale.
func (h *Handler) FeaturedCatalog(c *gin.Context) {
	force := c.Query("force") == "true"

	loadErr := h.catalog.LoadFeatured(c.Request.Context(), force)
	selection := h.catalog.Featured()

	if loadErr != nil {
		if len(selection.Carousel) == 0 && len(selection.Grid) == 0 {
			h.respondUpstreamError(c, "catalog load failed", loadErr)
			return
		}
		h.logger.Warn("serving stale featured catalog", zap.Error(loadErr))
		c.JSON(http.StatusOK, gin.H{
			"carousel": selection.Carousel,
			"grid":     selection.Grid,
			"loadedAt": selection.LoadedAt,
			"stale":    true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"carousel": selection.Carousel,
		"grid":     selection.Grid,
		"loadedAt": selection.LoadedAt,
		"stale":    false,
	})
}

type feedbackRequest struct {
	UserID        string              `json:"userId"`
	IssueType     string              `json:"issueType" binding:"required"`
	IssueCategory string              `json:"issueCategory" binding:"required"`
	UserNotes     string              `json:"userNotes"`
	ScanContext   *domain.ScanContext `json:"scanContext"`
}

// SubmitFeedback forwards a user-reported issue to the backend.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issueType and issueCategory are required"})
		return
	}

	err := h.feedback.Submit(c.Request.Context(), domain.FeedbackSubmission{
		UserID:        req.UserID,
		IssueType:     req.IssueType,
		IssueCategory: req.IssueCategory,
		UserNotes:     req.UserNotes,
		ScanContext:   req.ScanContext,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback"})
			return
		}
		h.respondUpstreamError(c, "feedback submission failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}

// respondUpstreamError logs the real error and returns a generic message so
// internal detail never reaches clients.
func (h *Handler) respondUpstreamError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))

	status := http.StatusInternalServerError
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) || errors.Is(err, domain.ErrSearchAPIFailure) || errors.Is(err, domain.ErrFeedbackRejected) {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": "something went wrong, please try again"})
}
