package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/curator/pkg/openapi"
	"github.com/JaimeStill/curator/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, rt *Runtime) error {
	groups := []routes.Group{
		domain.Products.Handler(rt.MaxUploadSize).Routes(),
	}

	patterns := routes.Register(mux, groups...)
	rt.Logger.Debug("routes registered", "base_path", rt.BasePath, "patterns", patterns)

	spec := openapi.NewSpec(rt.OpenAPI.Title, rt.Version)
	spec.SetDescription(rt.OpenAPI.Description)
	spec.AddServer(rt.BasePath)
	routes.Document(spec, groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET "+rt.OpenAPI.Path, openapi.ServeSpec(specBytes))

	return nil
}
