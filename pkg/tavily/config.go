package tavily

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultBaseURL    = "https://api.tavily.com"
	DefaultMaxResults = 8
	DefaultTimeout    = "20s"
	DefaultRate       = 2.0
	DefaultBurst      = 2
)

// Config holds Tavily search parameters.
type Config struct {
	APIKey     string  `toml:"api_key"`
	BaseURL    string  `toml:"base_url"`
	MaxResults int     `toml:"max_results"`
	Timeout    string  `toml:"timeout"`
	Rate       float64 `toml:"rate"`
	Burst      int     `toml:"burst"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey     string
	BaseURL    string
	MaxResults string
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
	if overlay.MaxResults > 0 {
		c.MaxResults = overlay.MaxResults
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Rate > 0 {
		c.Rate = overlay.Rate
	}
	if overlay.Burst > 0 {
		c.Burst = overlay.Burst
	}
}

// Configured reports whether an API key is present.
func (c *Config) Configured() bool {
	return c.APIKey != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.Rate <= 0 {
		c.Rate = DefaultRate
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
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
	if env.MaxResults != "" {
		if v := os.Getenv(env.MaxResults); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid max_results: %w", err)
			}
			c.MaxResults = n
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
