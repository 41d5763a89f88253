package labels

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/imaging"
	"github.com/JaimeStill/nourish/pkg/routes"
)

// Handler provides HTTP endpoints for label analysis.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "labels"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for label endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze-label", Handler: h.Analyze},
			{Method: "GET", Pattern: "/health", Handler: h.Health},
		},
	}
}

// Analyze runs the label pipeline on the uploaded image.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := handlers.ParseMultipart(w, r, h.maxUploadSize); err != nil {
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

	report, err := h.sys.Analyze(r.Context(), upload.Data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), fmt.Errorf("analyze %s: %w", upload.Filename, err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

// Health reports whether the upstream credentials are configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Health())
}
