// Package routes declares method-qualified routes and registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/curator/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI, when set,
// documents the route in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
