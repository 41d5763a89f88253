package corrections

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/imaging"
	"github.com/JaimeStill/nourish/pkg/storage"
)

// Domain errors for correction operations.
var (
	ErrConsentRequired = errors.New("consent is required (consent=true) to store the correction")
	ErrInvalidJSON     = errors.New("invalid JSON in detected_ingredients or corrected_ingredients")
	ErrNotArray        = errors.New("detected_ingredients and corrected_ingredients must be JSON arrays")
	ErrMissingLabel    = errors.New(`each corrected_ingredients item must have at least { "label": "..." }`)
	ErrMissingFile     = errors.New("multipart field \"file\" is required")
	ErrFileTooLarge    = handlers.ErrBodyTooLarge
	ErrInvalidID       = errors.New("invalid correction id")
	ErrNotFound        = errors.New("correction not found")
	ErrDuplicate       = errors.New("correction already exists")
	ErrRemoteOnly      = errors.New("corrections listing requires remote backend")
	ErrStore           = errors.New("failed to store correction")
)

// MapHTTPStatus maps correction domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRemoteOnly), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrConsentRequired),
		errors.Is(err, ErrInvalidJSON),
		errors.Is(err, ErrNotArray),
		errors.Is(err, ErrMissingLabel),
		errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, handlers.ErrMalformedForm),
		errors.Is(err, imaging.ErrEmpty),
		errors.Is(err, imaging.ErrUnsupportedType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
