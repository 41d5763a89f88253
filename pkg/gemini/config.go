package gemini

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DefaultModel          = "gemini-2.5-flash-lite"
	DefaultEmbeddingModel = "text-embedding-004"
	DefaultTemperature    = 0.3
)

// Config holds Gemini API parameters. APIKey may be empty at startup;
// the health probe reports it as missing and New refuses to build a client.
type Config struct {
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	EmbeddingModel string  `toml:"embedding_model"`
	Temperature    float32 `toml:"temperature"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Temperature    string
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
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
}

// Configured reports whether an API key is present.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = DefaultEmbeddingModel
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.EmbeddingModel != "" {
		if v := os.Getenv(env.EmbeddingModel); v != "" {
			c.EmbeddingModel = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			t, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return fmt.Errorf("invalid temperature: %w", err)
			}
			c.Temperature = float32(t)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}
