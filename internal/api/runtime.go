package api

import (
	"log/slog"

	"github.com/JaimeStill/curator/internal/config"
	"github.com/JaimeStill/curator/internal/infrastructure"
	"github.com/JaimeStill/curator/pkg/database"
	"github.com/JaimeStill/curator/pkg/openapi"
	"github.com/JaimeStill/curator/pkg/pagination"
	"github.com/JaimeStill/curator/pkg/storage"
)

// Runtime is everything the API module resolves once from config and
// infrastructure before building domains and routes.
type Runtime struct {
	Logger        *slog.Logger
	Database      database.System
	Storage       storage.System
	Pagination    pagination.Config
	MaxUploadSize int64
	BasePath      string
	Version       string
	OpenAPI       openapi.Config
}

// NewRuntime scopes the logger to the api module and snapshots API settings.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Logger:        infra.Logger.With("module", "api"),
		Database:      infra.Database,
		Storage:       infra.Storage,
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		BasePath:      cfg.API.BasePath,
		Version:       cfg.Version,
		OpenAPI:       cfg.API.OpenAPI,
	}
}
