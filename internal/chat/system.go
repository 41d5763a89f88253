// Package chat answers nutrition and training questions with
// retrieval-augmented generation over a local PDF library.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/pkg/lifecycle"
)

// Request is the body of POST /chat.
type Request struct {
	Message     string    `json:"message"`
	ChatHistory []Message `json:"chat_history"`
}

// Response is the assistant reply.
type Response struct {
	Response string `json:"response"`
}

// System defines the public contract for chat operations.
type System interface {
	Handler() *Handler
	Chat(ctx context.Context, req Request) (*Response, error)
	// Start registers a startup hook that builds or loads the index.
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	completer func() (Completer, error)
	retriever func() (Retriever, error)
	topK      int
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// New creates the chat system. completer and retriever are resolved per
// request so a missing key or an unbuilt index only fails chat calls.
func New(
	completer func() (Completer, error),
	retriever func() (Retriever, error),
	topK int,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) System {
	return &system{
		completer: completer,
		retriever: retriever,
		topK:      topK,
		metrics:   metrics,
		logger:    logger.With("system", "chat"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Chat(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	completer, err := s.completer()
	if err != nil {
		s.metrics.RecordChat("unconfigured")
		return nil, err
	}

	retriever, err := s.retriever()
	if err != nil {
		s.metrics.RecordChat("index_error")
		return nil, err
	}
	s.metrics.SetIndexedChunks(retriever.Count())

	answer, err := NewEngine(completer, retriever, s.topK).Chat(ctx, req.Message, req.ChatHistory)
	if err != nil {
		s.metrics.RecordChat("error")
		return nil, err
	}

	s.metrics.RecordChat("ok")
	s.logger.InfoContext(ctx, "chat answered", "history", len(req.ChatHistory))
	return &Response{Response: answer}, nil
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting chat system")

	lc.OnStartup(func() {
		retriever, err := s.retriever()
		if err != nil {
			s.logger.Error("chat index warm-up failed", "error", err)
			return
		}
		s.metrics.SetIndexedChunks(retriever.Count())
		s.logger.Info("chat index ready", "chunks", retriever.Count())
	})

	return nil
}
