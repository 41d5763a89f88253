// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, metrics, and the optional
// database and blob storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/nourish/internal/config"
	"github.com/JaimeStill/nourish/internal/telemetry"
	"github.com/JaimeStill/nourish/pkg/database"
	"github.com/JaimeStill/nourish/pkg/lifecycle"
	"github.com/JaimeStill/nourish/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database and Storage are nil unless corrections use the remote backend.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *telemetry.Metrics
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
		Metrics:   telemetry.New(),
	}

	if !cfg.Remote() {
		return infra, nil
	}

	db, err := database.New(&cfg.Database, infra.Logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, infra.Logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra.Database = db
	infra.Storage = store
	return infra, nil
}

// Start registers the configured systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
