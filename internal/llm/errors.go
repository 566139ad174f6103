package llm

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed model call so callers can surface
// provider-specific guidance.
type ErrorKind string

const (
	ErrKindAuth      ErrorKind = "authentication"
	ErrKindRateLimit ErrorKind = "rate_limit"
	ErrKindRequest   ErrorKind = "request"
)

// APIError is a failed call to the model gateway.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "llm: " + string(e.Kind) + " error: " + e.Message
}

// classifyStatus maps an HTTP status to an error kind, falling back to
// message-content heuristics when the status is not decisive.
func classifyStatus(status int, message string) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrKindAuth
	case http.StatusTooManyRequests:
		return ErrKindRateLimit
	}
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "api key") || strings.Contains(lower, "authentication"):
		return ErrKindAuth
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota"):
		return ErrKindRateLimit
	}
	return ErrKindRequest
}

// KindOf returns the classification of err, or ErrKindRequest when err
// is not an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrKindRequest
}
