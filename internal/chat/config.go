package chat

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DefaultBaseURL      = "https://api.groq.com/openai/v1"
	DefaultModel        = "llama-3.1-8b-instant"
	DefaultTemperature  = 0.2
	DefaultDataSource   = "data_source"
	DefaultStorage      = "storage"
	DefaultCollection   = "nutrition"
	DefaultChunkSize    = 1024
	DefaultChunkOverlap = 200
	DefaultTopK         = 2
	DefaultWorkers      = 4
)

// Config holds the retrieval index and chat model parameters.
type Config struct {
	APIKey       string  `toml:"api_key"`
	BaseURL      string  `toml:"base_url"`
	Model        string  `toml:"model"`
	Temperature  float32 `toml:"temperature"`
	DataSource   string  `toml:"data_source"`
	Storage      string  `toml:"storage"`
	Collection   string  `toml:"collection"`
	ChunkSize    int     `toml:"chunk_size"`
	ChunkOverlap int     `toml:"chunk_overlap"`
	TopK         int     `toml:"top_k"`
	Workers      int     `toml:"workers"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey     string
	BaseURL    string
	Model      string
	DataSource string
	Storage    string
	TopK       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.DataSource != "" {
		c.DataSource = overlay.DataSource
	}
	if overlay.Storage != "" {
		c.Storage = overlay.Storage
	}
	if overlay.Collection != "" {
		c.Collection = overlay.Collection
	}
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.ChunkOverlap != 0 {
		c.ChunkOverlap = overlay.ChunkOverlap
	}
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

// Configured reports whether a chat model key is present.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.DataSource == "" {
		c.DataSource = DefaultDataSource
	}
	if c.Storage == "" {
		c.Storage = DefaultStorage
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.DataSource != "" {
		if v := os.Getenv(env.DataSource); v != "" {
			c.DataSource = v
		}
	}
	if env.Storage != "" {
		if v := os.Getenv(env.Storage); v != "" {
			c.Storage = v
		}
	}
	if env.TopK != "" {
		if v := os.Getenv(env.TopK); v != "" {
			k, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid top_k: %w", err)
			}
			c.TopK = k
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be less than chunk_size")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive")
	}
	return nil
}
