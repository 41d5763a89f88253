package detection

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/imaging"
	"github.com/JaimeStill/nourish/pkg/routes"
)

// Handler provides HTTP endpoints for ingredient detection.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "detection"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for detection endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/detect",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Detect},
			{Method: "POST", Pattern: "/image", Handler: h.Image},
			{Method: "GET", Pattern: "/labels", Handler: h.Labels},
		},
	}
}

type response struct {
	Ingredients []Detection `json:"ingredients"`
}

// Detect returns the ingredients found in the uploaded image as JSON.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	params, upload, ok := h.read(w, r)
	if !ok {
		return
	}

	detections, err := h.sys.Detect(r.Context(), upload.Data, params)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, response{Ingredients: detections})
}

// Image returns the uploaded image with detections drawn as a JPEG.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	params, upload, ok := h.read(w, r)
	if !ok {
		return
	}

	annotated, err := h.sys.Annotate(r.Context(), upload.Data, params)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(annotated)
}

// Labels returns the ingredient vocabulary, meal categories and Spanish labels.
func (h *Handler) Labels(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Catalog())
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) (Params, *imaging.Upload, bool) {
	params, err := ParseParams(r.URL.Query().Get)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return params, nil, false
	}

	if err := handlers.ParseMultipart(w, r, h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return params, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return params, nil, false
	}
	defer file.Close()

	upload, err := imaging.FromMultipart(file, header)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return params, nil, false
	}

	return params, upload, true
}
