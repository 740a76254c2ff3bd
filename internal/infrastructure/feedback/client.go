// Package feedback forwards user-reported issues to the backend.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/infrastructure/retry"
	"github.com/kendall-wood/blackbuy-backend/internal/metrics"
)

const (
	submitAttempts = 2
	maxNoteLength  = 1000
	requestTimeout = 30 * time.Second
)

// Client submits feedback to POST {backend}/api/feedback. Only HTTP 200
// counts as success; transient failures are retried once.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a feedback client for the given backend base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// payload is the wire shape of one feedback submission.
type payload struct {
	UserID        string       `json:"user_id"`
	Timestamp     string       `json:"timestamp"`
	IssueType     string       `json:"issue_type"`
	IssueCategory string       `json:"issue_category"`
	UserNotes     string       `json:"user_notes"`
	ScanContext   *scanContext `json:"scan_context,omitempty"`
}

type scanContext struct {
	ScanText        string  `json:"scan_text"`
	DetectedProduct string  `json:"detected_product"`
	SearchQuery     string  `json:"search_query"`
	ResultsCount    int     `json:"results_count"`
	Confidence      float64 `json:"confidence"`
}

// Submit forwards one submission. Free-text fields are sanitized before
// transmission; anonymous submissions get a generated user id.
func (c *Client) Submit(ctx context.Context, submission domain.FeedbackSubmission) error {
	if submission.IssueType == "" || submission.IssueCategory == "" {
		return domain.ErrInvalidRequest
	}

	userID := submission.UserID
	if userID == "" {
		userID = "anon-" + uuid.NewString()
	}

	body := payload{
		UserID:        userID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		IssueType:     sanitize(submission.IssueType),
		IssueCategory: sanitize(submission.IssueCategory),
		UserNotes:     sanitize(submission.UserNotes),
	}
	if sc := submission.ScanContext; sc != nil {
		body.ScanContext = &scanContext{
			ScanText:        sanitize(sc.ScanText),
			DetectedProduct: sanitize(sc.DetectedProduct),
			SearchQuery:     sanitize(sc.SearchQuery),
			ResultsCount:    sc.ResultsCount,
			Confidence:      sc.Confidence,
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}

	_, err = retry.Do(ctx, submitAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.post(ctx, raw)
	})
	if err != nil {
		metrics.FeedbackSubmissions.WithLabelValues("error").Inc()
		return err
	}

	metrics.FeedbackSubmissions.WithLabelValues("ok").Inc()
	c.logger.Info("feedback submitted",
		zap.String("issueType", body.IssueType),
		zap.String("issueCategory", body.IssueCategory))
	return nil
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/feedback", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrFeedbackRejected, resp.StatusCode)
	}
	return nil
}

// sanitize strips control characters, collapses whitespace runs and caps the
// length of free-text fields before they leave the service.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}

	out := strings.TrimSpace(b.String())
	if len(out) > maxNoteLength {
		out = out[:maxNoteLength]
	}
	return out
}
