package client

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the backend endpoint settings used by the reviewer.
type Config struct {
	BaseURL      string `toml:"base_url"`
	ProductsPath string `toml:"products_path"`
	FeedbackPath string `toml:"feedback_path"`
	Timeout      string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL      string
	ProductsPath string
	FeedbackPath string
	Timeout      string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.ProductsPath != "" {
		c.ProductsPath = overlay.ProductsPath
	}
	if overlay.FeedbackPath != "" {
		c.FeedbackPath = overlay.FeedbackPath
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.ProductsPath == "" {
		c.ProductsPath = "/api/products"
	}
	if c.FeedbackPath == "" {
		c.FeedbackPath = "/api/submit-feedback"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.ProductsPath != "" {
		if v := os.Getenv(env.ProductsPath); v != "" {
			c.ProductsPath = v
		}
	}
	if env.FeedbackPath != "" {
		if v := os.Getenv(env.FeedbackPath); v != "" {
			c.FeedbackPath = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	if !strings.HasPrefix(c.ProductsPath, "/") {
		return fmt.Errorf("products_path must start with /: %s", c.ProductsPath)
	}
	if !strings.HasPrefix(c.FeedbackPath, "/") {
		return fmt.Errorf("feedback_path must start with /: %s", c.FeedbackPath)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
