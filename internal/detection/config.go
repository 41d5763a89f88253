package detection

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultModelID       = "IDEA-Research/grounding-dino-tiny"
	DefaultBoxThreshold  = 0.30
	DefaultTextThreshold = 0.25
	DefaultTimeout       = "60s"
	DefaultMaxBoxArea    = 0.45
)

// Config holds the detector inference endpoint parameters.
type Config struct {
	Endpoint      string  `toml:"endpoint"`
	ModelID       string  `toml:"model_id"`
	Token         string  `toml:"token"`
	BoxThreshold  float64 `toml:"box_threshold"`
	TextThreshold float64 `toml:"text_threshold"`
	MaxBoxArea    float64 `toml:"max_box_area"`
	Timeout       string  `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint      string
	ModelID       string
	Token         string
	BoxThreshold  string
	TextThreshold string
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
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ModelID != "" {
		c.ModelID = overlay.ModelID
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.BoxThreshold > 0 {
		c.BoxThreshold = overlay.BoxThreshold
	}
	if overlay.TextThreshold > 0 {
		c.TextThreshold = overlay.TextThreshold
	}
	if overlay.MaxBoxArea > 0 {
		c.MaxBoxArea = overlay.MaxBoxArea
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) loadDefaults() {
	if c.ModelID == "" {
		c.ModelID = DefaultModelID
	}
	if c.BoxThreshold <= 0 {
		c.BoxThreshold = DefaultBoxThreshold
	}
	if c.TextThreshold <= 0 {
		c.TextThreshold = DefaultTextThreshold
	}
	if c.MaxBoxArea <= 0 {
		c.MaxBoxArea = DefaultMaxBoxArea
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.ModelID != "" {
		if v := os.Getenv(env.ModelID); v != "" {
			c.ModelID = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.BoxThreshold != "" {
		if v := os.Getenv(env.BoxThreshold); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid box_threshold: %w", err)
			}
			c.BoxThreshold = f
		}
	}
	if env.TextThreshold != "" {
		if v := os.Getenv(env.TextThreshold); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid text_threshold: %w", err)
			}
			c.TextThreshold = f
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.BoxThreshold <= 0 || c.BoxThreshold > 1 {
		return fmt.Errorf("box_threshold must be in (0, 1]")
	}
	if c.TextThreshold <= 0 || c.TextThreshold > 1 {
		return fmt.Errorf("text_threshold must be in (0, 1]")
	}
	if c.MaxBoxArea <= 0 || c.MaxBoxArea > 1 {
		return fmt.Errorf("max_box_area must be in (0, 1]")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
