// Package config loads service configuration from TOML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/nourish/internal/chat"
	"github.com/JaimeStill/nourish/internal/detection"
	"github.com/JaimeStill/nourish/pkg/database"
	"github.com/JaimeStill/nourish/pkg/gemini"
	"github.com/JaimeStill/nourish/pkg/storage"
	"github.com/JaimeStill/nourish/pkg/tavily"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvNourishEnv             = "NOURISH_ENV"
	EnvNourishShutdownTimeout = "NOURISH_SHUTDOWN_TIMEOUT"
	EnvNourishVersion         = "NOURISH_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "NOURISH_DB_HOST",
	Port:            "NOURISH_DB_PORT",
	Name:            "NOURISH_DB_NAME",
	User:            "NOURISH_DB_USER",
	Password:        "NOURISH_DB_PASSWORD",
	SSLMode:         "NOURISH_DB_SSL_MODE",
	MaxOpenConns:    "NOURISH_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "NOURISH_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "NOURISH_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "NOURISH_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "MLOPS_BUCKET",
	ConnectionString: "NOURISH_STORAGE_CONNECTION_STRING",
}

var geminiEnv = &gemini.Env{
	APIKey:         "GOOGLE_API_KEY",
	Model:          "GEMINI_MODEL",
	EmbeddingModel: "NOURISH_GEMINI_EMBEDDING_MODEL",
	Temperature:    "NOURISH_GEMINI_TEMPERATURE",
}

var searchEnv = &tavily.Env{
	APIKey:     "TAVILY_API_KEY",
	BaseURL:    "NOURISH_SEARCH_BASE_URL",
	MaxResults: "NOURISH_SEARCH_MAX_RESULTS",
}

var detectorEnv = &detection.Env{
	Endpoint:      "NOURISH_DETECTOR_ENDPOINT",
	ModelID:       "GROUNDING_DINO_MODEL_ID",
	Token:         "NOURISH_DETECTOR_TOKEN",
	BoxThreshold:  "GROUNDING_DINO_BOX_THRESHOLD",
	TextThreshold: "GROUNDING_DINO_TEXT_THRESHOLD",
}

var chatEnv = &chat.Env{
	APIKey:     "GROQ_API_KEY",
	BaseURL:    "NOURISH_CHAT_BASE_URL",
	Model:      "NOURISH_CHAT_MODEL",
	DataSource: "RAG_DATA_SOURCE",
	Storage:    "RAG_STORAGE",
	TopK:       "NOURISH_CHAT_TOP_K",
}

// Config is the root configuration for the Nourish service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	API             APIConfig         `toml:"api"`
	Gemini          gemini.Config     `toml:"gemini"`
	Search          tavily.Config     `toml:"search"`
	Pipeline        PipelineConfig    `toml:"pipeline"`
	Detector        detection.Config  `toml:"detector"`
	Corrections     CorrectionsConfig `toml:"corrections"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Chat            chat.Config       `toml:"chat"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the NOURISH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvNourishEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// DotenvFiles are loaded in order before configuration is read. Variables
// already present in the process environment are never overwritten, so
// earlier files win over later ones.
var DotenvFiles = []string{".env.local", ".env"}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Gemini.Merge(&overlay.Gemini)
	c.Search.Merge(&overlay.Search)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Detector.Merge(&overlay.Detector)
	c.Corrections.Merge(&overlay.Corrections)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Chat.Merge(&overlay.Chat)
}

// Remote reports whether corrections are stored in blob storage and PostgreSQL.
func (c *Config) Remote() bool {
	return c.Corrections.Backend == BackendRemote
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Gemini.Finalize(geminiEnv); err != nil {
		return fmt.Errorf("gemini: %w", err)
	}
	if err := c.Search.Finalize(searchEnv); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Detector.Finalize(detectorEnv); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if err := c.Corrections.Finalize(); err != nil {
		return fmt.Errorf("corrections: %w", err)
	}
	if c.Remote() {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	if err := c.Chat.Finalize(chatEnv); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvNourishShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvNourishVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func loadDotenv() error {
	for _, file := range DotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvNourishEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
