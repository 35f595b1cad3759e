package shopsearch

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from the service's machine-readable codes.
var (
	// ErrSearchDisabled mirrors the service's search_disabled code.
	ErrSearchDisabled = errors.New("shopsearch: search is disabled")
	// ErrQueryTooShort mirrors the query_too_short code.
	ErrQueryTooShort = errors.New("shopsearch: query too short")
	// ErrUnavailable covers catalog_unavailable and timeout codes.
	ErrUnavailable = errors.New("shopsearch: service unavailable")
	// ErrUnauthorized signals a rejected API key.
	ErrUnauthorized = errors.New("shopsearch: unauthorized")
)

// APIError is a failure response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopsearch: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap maps well-known codes to sentinel errors so callers can errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "search_disabled":
		return ErrSearchDisabled
	case "query_too_short":
		return ErrQueryTooShort
	case "catalog_unavailable", "timeout":
		return ErrUnavailable
	case "unauthorized":
		return ErrUnauthorized
	}
	return nil
}
