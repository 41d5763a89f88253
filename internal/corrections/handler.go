package corrections

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/imaging"
	"github.com/JaimeStill/nourish/pkg/pagination"
	"github.com/JaimeStill/nourish/pkg/routes"
)

// Handler provides HTTP endpoints for correction operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "corrections"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for correction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/corrections",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Save},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/image", Handler: h.Image},
		},
	}
}

// Save validates and stores a correction submitted as multipart form data.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if err := handlers.ParseMultipart(w, r, h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := CheckConsent(r.FormValue("consent")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	upload, err := imaging.FromMultipart(file, header)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	detected, corrected, err := ParseIngredients(
		r.FormValue("detected_ingredients"),
		r.FormValue("corrected_ingredients"),
	)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	saved, err := h.sys.Save(r.Context(), Submission{
		Data:        upload.Data,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Detected:    detected,
		Corrected:   corrected,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, saved)
}

// List returns a paginated list of corrections with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single correction by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Image streams the stored image of a correction.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	body, c, err := h.sys.Image(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", c.ContentType)
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("inline; filename=%q", c.StorageKey),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
