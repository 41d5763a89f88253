// Package workflow implements the nutrition label pipeline: classify the
// label image, search for a healthier alternative when the product is
// ultra-processed, and consolidate both into a report.
package workflow

import (
	"errors"
	"net/http"
)

// Sentinel errors for pipeline operations.
var (
	ErrInvalidImage   = errors.New("invalid image")
	ErrClassification = errors.New("classification failed")
	ErrConsolidation  = errors.New("consolidation failed")
)

// MapHTTPStatus maps pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidImage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
