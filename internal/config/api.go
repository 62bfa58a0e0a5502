package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/curator/pkg/middleware"
	"github.com/JaimeStill/curator/pkg/openapi"
	"github.com/JaimeStill/curator/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CURATOR_CORS_ENABLED",
	Origins:          "CURATOR_CORS_ORIGINS",
	AllowedMethods:   "CURATOR_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CURATOR_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CURATOR_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CURATOR_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CURATOR_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CURATOR_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "CURATOR_OPENAPI_TITLE",
	Description: "CURATOR_OPENAPI_DESCRIPTION",
	Path:        "CURATOR_OPENAPI_PATH",
}

const (
	EnvAPIBasePath      = "CURATOR_API_BASE_PATH"
	EnvAPIMaxUploadSize = "CURATOR_API_MAX_UPLOAD_SIZE"
)

// APIConfig holds API routing, upload, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize parsed as a human-readable byte count
// ("25MB", "10 MiB"). Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	n, _ := humanize.ParseBytes(c.MaxUploadSize)
	return int64(n)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
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
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 || len(c.BasePath) < 2 {
		return fmt.Errorf("base_path must be a single-level path: %q", c.BasePath)
	}
	n, err := humanize.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
