package api

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/JaimeStill/nourish/internal/chat"
	"github.com/JaimeStill/nourish/internal/config"
	"github.com/JaimeStill/nourish/internal/detection"
	"github.com/JaimeStill/nourish/internal/infrastructure"
	"github.com/JaimeStill/nourish/pkg/gemini"
	"github.com/JaimeStill/nourish/pkg/lazy"
	"github.com/JaimeStill/nourish/pkg/pagination"
	"github.com/JaimeStill/nourish/pkg/tavily"
)

// Runtime extends Infrastructure with API-specific configuration and the
// process-wide upstream clients. Each client is built on first use.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Memo       *cache.Cache

	Gemini    *lazy.Value[*gemini.Client]
	Search    *lazy.Value[*tavily.Client]
	Detector  *lazy.Value[*detection.Client]
	Completer *lazy.Value[*chat.Client]
	Index     *lazy.Value[*chat.Index]
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	rt := &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Metrics:   infra.Metrics,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Memo:       cache.New(cfg.Pipeline.MemoTTLDuration(), cfg.Pipeline.MemoTTLDuration()),
	}

	rt.Gemini = lazy.New(func() (*gemini.Client, error) {
		return gemini.New(context.Background(), cfg.Gemini)
	})
	rt.Search = lazy.New(func() (*tavily.Client, error) {
		return tavily.New(cfg.Search)
	})
	rt.Detector = lazy.New(func() (*detection.Client, error) {
		return detection.NewClient(cfg.Detector)
	})
	rt.Completer = lazy.New(func() (*chat.Client, error) {
		return chat.NewClient(cfg.Chat)
	})
	rt.Index = lazy.New(func() (*chat.Index, error) {
		embedder, err := rt.Gemini.Get()
		if err != nil {
			return nil, err
		}
		return chat.OpenIndex(infra.Lifecycle.Context(), cfg.Chat, embedder, logger)
	})

	return rt
}
