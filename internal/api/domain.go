package api

import (
	"github.com/JaimeStill/nourish/internal/chat"
	"github.com/JaimeStill/nourish/internal/config"
	"github.com/JaimeStill/nourish/internal/corrections"
	"github.com/JaimeStill/nourish/internal/detection"
	"github.com/JaimeStill/nourish/internal/labels"
	"github.com/JaimeStill/nourish/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Labels      labels.System
	Detection   detection.System
	Corrections corrections.System
	Chat        chat.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	pipeline := &workflow.Runtime{
		Model: func() (workflow.Model, error) {
			client, err := runtime.Gemini.Get()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Search: func() (workflow.Searcher, error) {
			client, err := runtime.Search.Get()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Memo:    runtime.Memo,
		Metrics: runtime.Metrics,
		Timeout: cfg.Pipeline.TimeoutDuration(),
		Logger:  runtime.Logger.With("system", "workflow"),
	}

	labelsSystem := labels.New(
		pipeline,
		func() labels.Credentials {
			return labels.Credentials{
				Google: cfg.Gemini.Configured(),
				Tavily: cfg.Search.Configured(),
			}
		},
		runtime.Logger,
	)

	detectionSystem := detection.New(
		func() (detection.Detector, error) {
			client, err := runtime.Detector.Get()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		cfg.Detector,
		runtime.Metrics,
		runtime.Logger,
	)

	correctionsSystem := corrections.New(
		newCorrectionsBackend(cfg, runtime),
		runtime.Metrics,
		runtime.Logger,
		runtime.Pagination,
	)

	chatSystem := chat.New(
		func() (chat.Completer, error) {
			client, err := runtime.Completer.Get()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		func() (chat.Retriever, error) {
			index, err := runtime.Index.Get()
			if err != nil {
				return nil, err
			}
			return index, nil
		},
		cfg.Chat.TopK,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Labels:      labelsSystem,
		Detection:   detectionSystem,
		Corrections: correctionsSystem,
		Chat:        chatSystem,
	}
}

func newCorrectionsBackend(cfg *config.Config, runtime *Runtime) corrections.Backend {
	if cfg.Remote() {
		return corrections.NewRemote(
			runtime.Database.Connection(),
			runtime.Storage,
			runtime.Logger,
			runtime.Pagination,
		)
	}
	return corrections.NewLocal(cfg.Corrections.Dir, runtime.Logger)
}
