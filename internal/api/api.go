// Package api assembles the API module: domain systems, their routes, the
// generated OpenAPI document, and the module's middleware chain.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/curator/internal/config"
	"github.com/JaimeStill/curator/internal/infrastructure"
	"github.com/JaimeStill/curator/pkg/middleware"
	"github.com/JaimeStill/curator/pkg/module"
)

// NewModule builds the API module mounted at the configured base path.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	rt := NewRuntime(cfg, infra)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, NewDomain(rt), rt); err != nil {
		return nil, err
	}

	m, err := module.New(rt.BasePath, mux)
	if err != nil {
		return nil, fmt.Errorf("api module: %w", err)
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(rt.Logger))

	return m, nil
}
