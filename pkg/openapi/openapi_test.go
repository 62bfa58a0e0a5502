package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/curator/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Curator API", "1.0.0")
	spec.AddServer("/api")
	spec.SetDescription("review queue")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Curator API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Info.Description != "review queue" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should be initialized")
	}
}

func TestPathItemSet(t *testing.T) {
	var item openapi.PathItem
	get := &openapi.Operation{Summary: "list"}
	post := &openapi.Operation{Summary: "upload"}

	if !item.Set("GET", get) || !item.Set("POST", post) {
		t.Fatal("GET and POST should be accepted")
	}
	if item.Set("DELETE", &openapi.Operation{}) {
		t.Error("DELETE has no slot and should be rejected")
	}

	if item.Get != get || item.Post != post {
		t.Errorf("item: got %+v", item)
	}
}

func TestRefs(t *testing.T) {
	if ref := openapi.SchemaRef("Product"); ref.Ref != "#/components/schemas/Product" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}

	rb := openapi.RequestBodyJSON("FeedbackCommand", true)
	if !rb.Required || rb.Content["application/json"].Schema.Ref != "#/components/schemas/FeedbackCommand" {
		t.Errorf("request body: got %+v", rb)
	}

	resp := openapi.ResponseJSON("Success", "Product")
	if resp.Description != "Success" || resp.Content["application/json"].Schema.Ref != "#/components/schemas/Product" {
		t.Errorf("response: got %+v", resp)
	}

	file := openapi.ResponseFile("CSV", "text/csv")
	if file.Content["text/csv"].Schema.Format != "binary" {
		t.Errorf("file response: got %+v", file)
	}
}

func TestParams(t *testing.T) {
	p := openapi.PathParam("id", "Product ID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", p)
	}

	q := openapi.QueryParam("status", "string", "Review status", false)
	if q.In != "query" || q.Required || q.Schema.Type != "string" {
		t.Errorf("query param: got %+v", q)
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("missing default schema: PageRequest")
	}
	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "ServiceUnavailable"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing default response: %s", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Product": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Unauthorized": {Description: "no"}})
	if c.Schemas["Product"] == nil || c.Schemas["PageRequest"] == nil {
		t.Error("AddSchemas should merge")
	}
	if c.Responses["Unauthorized"] == nil || c.Responses["BadRequest"] == nil {
		t.Error("AddResponses should merge")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("body unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}

	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing etag")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	openapi.ServeSpec(data)(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional status: got %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("304 body: got %d bytes", rec.Body.Len())
	}

	rec = httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("HEAD", "/openapi.json", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("head: got %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestAddTag(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddTag("Products", "")
	spec.AddTag("Feedback", "Reviewer decisions")
	spec.AddTag("Products", "Catalog records")

	if len(spec.Tags) != 2 {
		t.Fatalf("tags: got %d, want 2", len(spec.Tags))
	}
	if spec.Tags[0].Name != "Products" || spec.Tags[0].Description != "Catalog records" {
		t.Errorf("first tag: got %+v", spec.Tags[0])
	}
	if spec.Tags[1].Name != "Feedback" {
		t.Errorf("second tag: got %+v", spec.Tags[1])
	}
}

func TestConfig(t *testing.T) {
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Curator API" {
		t.Errorf("title: got %s, want Curator API", cfg.Title)
	}
	if !strings.Contains(cfg.Description, "review") {
		t.Errorf("description: got %s", cfg.Description)
	}

	t.Setenv("TEST_TITLE", "Custom API")
	env := &openapi.ConfigEnv{Title: "TEST_TITLE"}
	cfg = openapi.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Custom API" {
		t.Errorf("title: got %s, want Custom API", cfg.Title)
	}

	if cfg.Path != "/openapi.json" {
		t.Errorf("path: got %s, want /openapi.json", cfg.Path)
	}

	bad := openapi.Config{Path: "openapi.json"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for relative path")
	}

	base := openapi.Config{Title: "Base", Description: "keep"}
	base.Merge(&openapi.Config{Title: "Overlay"})
	if base.Title != "Overlay" || base.Description != "keep" {
		t.Errorf("merge: got %+v", base)
	}
}
