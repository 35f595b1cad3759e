package domain

import "errors"

var (
	// ErrSearchDisabled signals that live search is switched off in settings.
	ErrSearchDisabled = errors.New("search is disabled")
	// ErrQueryTooShort signals a query below the configured minimum length.
	ErrQueryTooShort = errors.New("query too short")
	// ErrUpstreamUnavailable signals that every enabled gather scope failed.
	ErrUpstreamUnavailable = errors.New("catalog unavailable")

	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct signals a malformed product record.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidTerm signals a malformed taxonomy term record.
	ErrInvalidTerm = errors.New("invalid term")
)
