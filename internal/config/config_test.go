package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/curator/internal/config"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080

[database]
host = "localhost"
port = 5432
name = "catalog"
user = "curator"
password = "curator"

[storage]
container_name = "product-catalog"

[api]
base_path = "/api"
max_upload_size = "10MB"

[api.cors]
enabled = true
origins = ["http://localhost:3000"]

[api.pagination]
default_page_size = 50

[client]
base_url = "http://localhost:8080"
timeout = "5s"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[client]
base_url = "https://catalog.example.com"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func configDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeConfig(t, dir, name, content)
	}
	t.Setenv("CURATOR_CONFIG_DIR", dir)
}

func TestLoad(t *testing.T) {
	configDir(t, map[string]string{"config.toml": baseConfig})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %s", cfg.Server.Addr())
	}
	if cfg.Database.Name != "catalog" {
		t.Errorf("db name: got %s, want catalog", cfg.Database.Name)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled without a connection string")
	}
	if !cfg.API.CORS.Enabled || len(cfg.API.CORS.Origins) != 1 {
		t.Errorf("cors: got %+v", cfg.API.CORS)
	}
	if cfg.API.MaxUploadSizeBytes() != 10_000_000 {
		t.Errorf("max upload: got %d, want 10000000", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.API.Pagination.DefaultPageSize != 50 || cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination: got %+v", cfg.API.Pagination)
	}
	if cfg.ShutdownTimeoutDuration() != 20*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Client.TimeoutDuration() != 5*time.Second {
		t.Errorf("client timeout: got %v", cfg.Client.TimeoutDuration())
	}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	configDir(t, map[string]string{
		"config.toml":         baseConfig,
		"config.staging.toml": overlayConfig,
	})
	t.Setenv("CURATOR_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	configDir(t, map[string]string{"config.toml": baseConfig})

	t.Setenv("CURATOR_VERSION", "2.0.0")
	t.Setenv("CURATOR_SERVER_PORT", "3000")
	t.Setenv("CURATOR_DB_URL", "postgres://u:p@db:5432/catalog")
	t.Setenv("CURATOR_API_MAX_UPLOAD_SIZE", "1 MiB")
	t.Setenv("CURATOR_LOG_LEVEL", "debug")
	t.Setenv("CURATOR_PAGINATION_MAX_PAGE_SIZE", "75")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Dsn() != "postgres://u:p@db:5432/catalog" {
		t.Errorf("dsn: got %s", cfg.Database.Dsn())
	}
	if cfg.API.MaxUploadSizeBytes() != 1<<20 {
		t.Errorf("max upload: got %d, want %d", cfg.API.MaxUploadSizeBytes(), 1<<20)
	}
	if cfg.API.Pagination.MaxPageSize != 75 {
		t.Errorf("max page size: got %d, want 75", cfg.API.Pagination.MaxPageSize)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level: got %v, want debug", cfg.Level())
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	configDir(t, nil)

	t.Setenv("CURATOR_DB_NAME", "testdb")
	t.Setenv("CURATOR_DB_USER", "testuser")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path default: got %s", cfg.API.BasePath)
	}
	if cfg.Client.BaseURL != "http://localhost:8080" {
		t.Errorf("client base url default: got %s", cfg.Client.BaseURL)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	configDir(t, map[string]string{"config.toml": `shutdown_timeout = `})

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "missing database name",
			config:  "[database]\nuser = \"curator\"\n",
			wantErr: "name required",
		},
		{
			name:    "invalid port",
			config:  "[server]\nport = 99999\n[database]\nname = \"c\"\nuser = \"c\"\n",
			wantErr: "invalid port",
		},
		{
			name:    "invalid upload size",
			config:  "[api]\nmax_upload_size = \"lots\"\n[database]\nname = \"c\"\nuser = \"c\"\n",
			wantErr: "invalid max_upload_size",
		},
		{
			name:    "nested base path",
			config:  "[api]\nbase_path = \"/api/v1\"\n[database]\nname = \"c\"\nuser = \"c\"\n",
			wantErr: "base_path",
		},
		{
			name:    "page size over max",
			config:  "[api.pagination]\ndefault_page_size = 300\n[database]\nname = \"c\"\nuser = \"c\"\n",
			wantErr: "exceeds max_page_size",
		},
		{
			name:    "invalid log level",
			config:  "log_level = \"loud\"\n[database]\nname = \"c\"\nuser = \"c\"\n",
			wantErr: "invalid log_level",
		},
		{
			name:    "invalid client url",
			config:  "[client]\nbase_url = \"nowhere\"\n[database]\nname = \"c\"\nuser = \"c\"\n",
			wantErr: "invalid base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configDir(t, map[string]string{"config.toml": tt.config})

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	configDir(t, map[string]string{
		"config.toml":      "[client]\ntimeout = \"4s\"\n",
		"config.prod.toml": overlayConfig,
	})
	t.Setenv("CURATOR_ENV", "prod")

	cfg, err := config.LoadClient()
	if err != nil {
		t.Fatalf("load client without database settings failed: %v", err)
	}

	if cfg.BaseURL != "https://catalog.example.com" {
		t.Errorf("base url: got %s", cfg.BaseURL)
	}
	if cfg.TimeoutDuration() != 4*time.Second {
		t.Errorf("timeout: got %v, want 4s", cfg.TimeoutDuration())
	}
	if cfg.FeedbackPath != "/api/submit-feedback" {
		t.Errorf("feedback path: got %s", cfg.FeedbackPath)
	}
}

func TestLoadClientEnvOverride(t *testing.T) {
	configDir(t, nil)
	t.Setenv("CURATOR_CLIENT_BASE_URL", "http://10.0.0.5:8080")

	cfg, err := config.LoadClient()
	if err != nil {
		t.Fatalf("load client failed: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("base url: got %s", cfg.BaseURL)
	}
}
