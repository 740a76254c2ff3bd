package domain

// ClassificationResult is the classifier's best guess for a piece of
// recognized label text. It is created fresh per classification and consumed
// immediately by the search layer.
type ClassificationResult struct {
	ProductType     string   `json:"productType"`
	Query           string   `json:"query"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`

	// Form is the detected dispensing method (oil, cream, spray, ...) and
	// Ingredients the detected ingredient keywords; both feed the scan
	// search's broadening passes.
	Form        string   `json:"form,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// ScanContext carries the scan that prompted a piece of feedback.
type ScanContext struct {
	ScanText        string  `json:"scan_text"`
	DetectedProduct string  `json:"detected_product"`
	SearchQuery     string  `json:"search_query"`
	ResultsCount    int     `json:"results_count"`
	Confidence      float64 `json:"confidence"`
}

// FeedbackSubmission is a user-reported issue forwarded to the backend.
type FeedbackSubmission struct {
	UserID        string       `json:"user_id"`
	IssueType     string       `json:"issue_type"`
	IssueCategory string       `json:"issue_category"`
	UserNotes     string       `json:"user_notes"`
	ScanContext   *ScanContext `json:"scan_context,omitempty"`
}
