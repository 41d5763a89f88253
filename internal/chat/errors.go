package chat

import (
	"errors"
	"net/http"
)

// Domain errors for chat operations.
var (
	ErrEmptyMessage = errors.New("message must not be empty")
	ErrInvalidBody  = errors.New("invalid request body")
	ErrMissingKey   = errors.New("GROQ_API_KEY is not configured")
	ErrIndex        = errors.New("index unavailable")
	ErrCompletion   = errors.New("chat completion failed")
)

// MapHTTPStatus maps chat domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
