package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/nourish/pkg/handlers"
	"github.com/JaimeStill/nourish/pkg/routes"
)

// Handler provides HTTP endpoints for the chat assistant.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chat"),
	}
}

// Routes returns the route group definition for chat endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chat",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Chat},
			{Method: "GET", Pattern: "/health", Handler: h.Health},
		},
	}
}

// Chat answers a message with the retrieved context and prior history.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	resp, err := h.sys.Chat(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Health reports that the chat service is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
