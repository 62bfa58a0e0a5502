// Package config loads service and reviewer configuration from TOML files and
// CURATOR_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/curator/internal/client"
	"github.com/JaimeStill/curator/pkg/database"
	"github.com/JaimeStill/curator/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCuratorEnv             = "CURATOR_ENV"
	EnvCuratorConfigDir       = "CURATOR_CONFIG_DIR"
	EnvCuratorShutdownTimeout = "CURATOR_SHUTDOWN_TIMEOUT"
	EnvCuratorVersion         = "CURATOR_VERSION"
	EnvCuratorLogLevel        = "CURATOR_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	URL:             "CURATOR_DB_URL",
	Host:            "CURATOR_DB_HOST",
	Port:            "CURATOR_DB_PORT",
	Name:            "CURATOR_DB_NAME",
	User:            "CURATOR_DB_USER",
	Password:        "CURATOR_DB_PASSWORD",
	SSLMode:         "CURATOR_DB_SSL_MODE",
	MaxOpenConns:    "CURATOR_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CURATOR_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CURATOR_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CURATOR_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CURATOR_STORAGE_CONTAINER_NAME",
	ConnectionString: "CURATOR_STORAGE_CONNECTION_STRING",
	Prefix:           "CURATOR_STORAGE_PREFIX",
}

var clientEnv = &client.Env{
	BaseURL:      "CURATOR_CLIENT_BASE_URL",
	ProductsPath: "CURATOR_CLIENT_PRODUCTS_PATH",
	FeedbackPath: "CURATOR_CLIENT_FEEDBACK_PATH",
	Timeout:      "CURATOR_CLIENT_TIMEOUT",
}

// Config is the root configuration shared by the service and the reviewer CLI.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Client          client.Config   `toml:"client"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	LogLevel        string          `toml:"log_level"`
	Version         string          `toml:"version"`
}

// Env returns the CURATOR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCuratorEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml and any environment overlay, then finalizes every
// section the service needs. Missing files are not an error.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadClient reads the same files as Load but finalizes only the client section,
// so the reviewer runs without database or storage settings.
func LoadClient() (*client.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Client.Finalize(clientEnv); err != nil {
		return nil, fmt.Errorf("finalize config: client: %w", err)
	}

	return &cfg.Client, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Client.Merge(&overlay.Client)
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
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Client.Finalize(clientEnv); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCuratorShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCuratorLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCuratorVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func read() (*Config, error) {
	cfg := &Config{}

	base := configPath(BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
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

	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCuratorEnv); env != "" {
		path := configPath(fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func configPath(name string) string {
	if dir := os.Getenv(EnvCuratorConfigDir); dir != "" {
		return filepath.Join(dir, name)
	}
	return name
}
