package detection

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/imaging"
)

// Domain errors for detection operations.
var (
	ErrInvalidCategory = errors.New("invalid category: allowed values are breakfast, lunch, snack, dinner")
	ErrInvalidParam    = errors.New("invalid query parameter")
	ErrMissingFile     = errors.New("multipart field \"file\" is required")
	ErrFileTooLarge    = handlers.ErrBodyTooLarge
	ErrDetector        = errors.New("detection failed")
)

// MapHTTPStatus maps detection domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidParam),
		errors.Is(err, ErrMissingFile),
		errors.Is(err, handlers.ErrMalformedForm),
		errors.Is(err, imaging.ErrEmpty),
		errors.Is(err, imaging.ErrUnsupportedType),
		errors.Is(err, imaging.ErrDecode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
