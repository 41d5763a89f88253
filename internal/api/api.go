// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/nourish/internal/config"
	"github.com/JaimeStill/nourish/internal/infrastructure"
	"github.com/JaimeStill/nourish/pkg/middleware"
	"github.com/JaimeStill/nourish/pkg/module"
	"github.com/JaimeStill/nourish/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
// An empty base path serves the routes from the server root.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	if err := domain.Chat.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("chat start failed: %w", err)
	}

	spec, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, spec)

	var m *module.Module
	if cfg.API.BasePath == "" {
		m = module.NewRoot(mux)
	} else {
		m = module.New(cfg.API.BasePath, mux)
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
