package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/pkg/tavily"
)

// DefaultTimeout bounds one pipeline run.
const DefaultTimeout = 2 * time.Minute

// Model is the multimodal completion service.
type Model interface {
	Vision(ctx context.Context, prompt string, jpeg []byte) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher is the web search service.
type Searcher interface {
	Search(ctx context.Context, query string) ([]tavily.Result, error)
}

// Runtime bundles the dependencies that pipeline stages require.
// Model and Search resolve process-wide clients on demand so a missing
// credential fails the request that needs it rather than startup.
type Runtime struct {
	Model   func() (Model, error)
	Search  func() (Searcher, error)
	Memo    *cache.Cache
	Metrics *telemetry.Metrics
	Timeout time.Duration
	Logger  *slog.Logger
}

func (rt *Runtime) timeout() time.Duration {
	if rt.Timeout > 0 {
		return rt.Timeout
	}
	return DefaultTimeout
}
