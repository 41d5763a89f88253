// Package labels serves nutrition label analysis over HTTP.
package labels

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/nourish/internal/workflow"
)

// Health status values.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"

	credentialConfigured = "configured"
	credentialMissing    = "missing"
)

// Credentials reports which upstream keys are present.
type Credentials struct {
	Google bool
	Tavily bool
}

// Health is the body of the label health probe.
type Health struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details"`
}

// System defines the public contract for label analysis.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Analyze(ctx context.Context, image []byte) (*workflow.Report, error)
	Health() Health
}

type system struct {
	rt          *workflow.Runtime
	credentials func() Credentials
	logger      *slog.Logger
}

// New creates the label system over a pipeline runtime. credentials is
// consulted on every health probe.
func New(rt *workflow.Runtime, credentials func() Credentials, logger *slog.Logger) System {
	return &system{
		rt:          rt,
		credentials: credentials,
		logger:      logger.With("system", "labels"),
	}
}

func (s *system) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *system) Analyze(ctx context.Context, image []byte) (*workflow.Report, error) {
	return workflow.Execute(ctx, s.rt, image)
}

// Health reports a missing Google key as an error and a missing Tavily key
// as a warning. The pipeline still runs without Tavily.
func (s *system) Health() Health {
	creds := s.credentials()

	h := Health{
		Status: StatusOK,
		Details: map[string]string{
			"google_api_key": credentialState(creds.Google),
			"tavily_api_key": credentialState(creds.Tavily),
		},
	}

	switch {
	case !creds.Google:
		h.Status = StatusError
	case !creds.Tavily:
		h.Status = StatusWarning
	}

	return h
}

func credentialState(ok bool) string {
	if ok {
		return credentialConfigured
	}
	return credentialMissing
}
