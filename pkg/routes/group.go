package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/curator/pkg/openapi"
)

// Group organizes routes and nested groups under a common prefix. Tags apply to
// every documented route in the group that declares none of its own.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
	Schemas  map[string]*openapi.Schema
}

// Register adds every route in groups to mux and returns the registered patterns.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, group := range groups {
		group.walk("", nil, func(route Route, path string, _ []string) {
			pattern := route.Method + " " + path
			mux.HandleFunc(pattern, route.Handler)
			patterns = append(patterns, pattern)
		})
	}
	return patterns
}

// Document adds documented routes and group schemas to spec.
func Document(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		group.schemas(spec.Components)
		group.walk("", nil, func(route Route, path string, tags []string) {
			if route.OpenAPI == nil {
				return
			}
			op := *route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = tags
			}

			key := specPath(path)
			item, ok := spec.Paths[key]
			if !ok {
				item = &openapi.PathItem{}
			}
			if !item.Set(route.Method, &op) {
				return
			}
			spec.Paths[key] = item
			for _, tag := range op.Tags {
				spec.AddTag(tag, "")
			}
		})
	}
}

func (g Group) walk(parent string, tags []string, visit func(route Route, path string, tags []string)) {
	prefix := parent + g.Prefix
	if len(g.Tags) > 0 {
		tags = g.Tags
	}
	for _, route := range g.Routes {
		visit(route, prefix+route.Pattern, tags)
	}
	for _, child := range g.Children {
		child.walk(prefix, tags, visit)
	}
}

func (g Group) schemas(c *openapi.Components) {
	if len(g.Schemas) > 0 {
		c.AddSchemas(g.Schemas)
	}
	for _, child := range g.Children {
		child.schemas(c)
	}
}

// specPath converts ServeMux wildcards like {key...} to OpenAPI path parameters.
func specPath(path string) string {
	path = strings.ReplaceAll(path, "...}", "}")
	if path == "" {
		return "/"
	}
	return path
}
