package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSearchAPIFailure is returned when a search service request fails
	ErrSearchAPIFailure = errors.New("search service request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrFeedbackRejected is returned when the backend refuses a feedback submission
	ErrFeedbackRejected = errors.New("feedback submission rejected")

	// ErrNotConfigured is returned when a required external endpoint or key is missing
	ErrNotConfigured = errors.New("service not configured")
)

// APIError is a structured error decoded from the search service's error
// payload on a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Code       int
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("search API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("search API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match APIError against ErrSearchAPIFailure.
func (e *APIError) Unwrap() error {
	return ErrSearchAPIFailure
}
