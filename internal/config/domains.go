package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvPipelineTimeout = "NOURISH_PIPELINE_TIMEOUT"
	EnvPipelineMemoTTL = "NOURISH_PIPELINE_MEMO_TTL"

	EnvCorrectionsBackend = "NOURISH_CORRECTIONS_BACKEND"
	EnvCorrectionsDir     = "MLOPS_CORRECTIONS_DIR"

	BackendLocal  = "local"
	BackendRemote = "remote"
)

// PipelineConfig holds label analysis settings.
type PipelineConfig struct {
	Timeout string `toml:"timeout"`
	MemoTTL string `toml:"memo_ttl"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *PipelineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MemoTTLDuration returns MemoTTL as a time.Duration.
func (c *PipelineConfig) MemoTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.MemoTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.MemoTTL == "" {
		c.MemoTTL = "24h"
	}
	if v := os.Getenv(EnvPipelineTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvPipelineMemoTTL); v != "" {
		c.MemoTTL = v
	}

	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if _, err := time.ParseDuration(c.MemoTTL); err != nil {
		return fmt.Errorf("invalid memo_ttl: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MemoTTL != "" {
		c.MemoTTL = overlay.MemoTTL
	}
}

// CorrectionsConfig selects where human corrections are stored.
type CorrectionsConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CorrectionsConfig) Finalize() error {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.Dir == "" {
		c.Dir = "data/corrections"
	}
	if v := os.Getenv(EnvCorrectionsBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvCorrectionsDir); v != "" {
		c.Dir = v
	}

	if c.Backend != BackendLocal && c.Backend != BackendRemote {
		return fmt.Errorf("invalid backend %q: want %s or %s", c.Backend, BackendLocal, BackendRemote)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *CorrectionsConfig) Merge(overlay *CorrectionsConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Dir != "" {
		c.Dir = overlay.Dir
	}
}
