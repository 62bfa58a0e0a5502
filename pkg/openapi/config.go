package openapi

import (
	"fmt"
	"os"
	"strings"
)

// Config controls the generated document's metadata and where it is served,
// relative to the API base path.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Path        string `toml:"path"`
}

// ConfigEnv names the environment variables that override Config fields.
// Empty names are skipped.
type ConfigEnv struct {
	Title       string
	Description string
	Path        string
}

// Finalize fills defaults, applies env overrides, and checks Path.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Curator API"
	}
	if c.Description == "" {
		c.Description = "Product text review queue: pending products, reviewer feedback, CSV import, and Shopify export."
	}
	if c.Path == "" {
		c.Path = "/openapi.json"
	}

	if env != nil {
		override(&c.Title, env.Title)
		override(&c.Description, env.Description)
		override(&c.Path, env.Path)
	}

	if !strings.HasPrefix(c.Path, "/") || strings.ContainsAny(c.Path, " {}") {
		return fmt.Errorf("invalid path %q: must be an absolute path without wildcards", c.Path)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func override(field *string, name string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*field = v
	}
}
