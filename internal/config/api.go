package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/nourish/pkg/formatting"
	"github.com/JaimeStill/nourish/pkg/middleware"
	"github.com/JaimeStill/nourish/pkg/openapi"
	"github.com/JaimeStill/nourish/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "NOURISH_CORS_ENABLED",
	Origins:          "NOURISH_CORS_ORIGINS",
	OriginPatterns:   "NOURISH_CORS_ORIGIN_PATTERNS",
	AllowedMethods:   "NOURISH_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "NOURISH_CORS_ALLOWED_HEADERS",
	AllowCredentials: "NOURISH_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "NOURISH_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "NOURISH_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "NOURISH_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "NOURISH_OPENAPI_TITLE",
	Description: "NOURISH_OPENAPI_DESCRIPTION",
}

// Frontend origins allowed when no CORS origins are configured.
var (
	DefaultCORSOrigins = []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:3000",
	}
	DefaultCORSOriginPatterns = []string{`^https://[\w-]+\.vercel\.app$`}
)

// APIConfig holds API routing, CORS, pagination and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.CORS.Origins == nil && c.CORS.OriginPatterns == nil {
		c.CORS.Enabled = true
		c.CORS.AllowCredentials = true
		c.CORS.Origins = DefaultCORSOrigins
		c.CORS.OriginPatterns = DefaultCORSOriginPatterns
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("NOURISH_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("NOURISH_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
