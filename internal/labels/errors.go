package labels

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/nourish/internal/workflow"
	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/imaging"
)

// Domain errors for label operations.
var (
	ErrFileTooLarge = handlers.ErrBodyTooLarge
	ErrMissingFile  = errors.New("multipart field \"file\" is required")
)

// MapHTTPStatus maps label and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMissingFile),
		errors.Is(err, handlers.ErrMalformedForm),
		errors.Is(err, imaging.ErrEmpty),
		errors.Is(err, imaging.ErrUnsupportedType):
		return http.StatusBadRequest
	default:
		return workflow.MapHTTPStatus(err)
	}
}
