package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JaimeStill/curator/internal/client"
	"github.com/JaimeStill/curator/pkg/review"
)

func newClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	cfg := &client.Config{BaseURL: baseURL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return client.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/products" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"text_content":"A"}]`))
	}))
	defer srv.Close()

	body, err := newClient(t, srv.URL).Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}

	records, err := review.ParseRecords(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 1 || records[0].TextContent != "A" {
		t.Errorf("records = %+v", records)
	}
}

func TestSubmitFeedback(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/submit-feedback" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"success","feedback_id":"f-1"}`))
	}))
	defer srv.Close()

	fb := review.Feedback{
		ProductID:  review.NewID(json.Number("7")),
		IsApproved: true,
		Correction: "Blue Mug",
	}

	ack, err := newClient(t, srv.URL).SubmitFeedback(context.Background(), fb)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ack.Status != "success" || ack.FeedbackID != "f-1" {
		t.Errorf("ack = %+v", ack)
	}

	if got["product_id"] != 7.0 {
		t.Errorf("product_id = %v, want 7", got["product_id"])
	}
	if got["is_approved"] != true {
		t.Errorf("is_approved = %v", got["is_approved"])
	}
	if got["correction"] != "Blue Mug" {
		t.Errorf("correction = %v", got["correction"])
	}
}

func TestBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"product not found"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).SubmitFeedback(context.Background(), review.Feedback{})
	if !errors.Is(err, review.ErrBackend) {
		t.Fatalf("err = %v, want ErrBackend", err)
	}

	var be *review.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %T, want *BackendError", err)
	}
	if be.Status != http.StatusNotFound || be.Body != "product not found" {
		t.Errorf("backend error = %+v", be)
	}
}

func TestBackendErrorTruncatesOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).SubmitFeedback(context.Background(), review.Feedback{})

	var be *review.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BackendError", err)
	}
	if !utf8.ValidString(be.Body) {
		t.Errorf("body split a character: %q", be.Body[len(be.Body)-4:])
	}
	if len(be.Body) > 512 || !strings.HasPrefix(body, be.Body) {
		t.Errorf("body len = %d, want a prefix of at most 512 bytes", len(be.Body))
	}
}

func TestMalformedAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>ok</html>`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).SubmitFeedback(context.Background(), review.Feedback{})
	if !errors.Is(err, review.ErrBackend) {
		t.Errorf("err = %v, want ErrBackend", err)
	}
}

func TestNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url)

	if _, err := c.Products(context.Background()); !errors.Is(err, review.ErrNetworkUnavailable) {
		t.Errorf("products err = %v, want ErrNetworkUnavailable", err)
	}
	if _, err := c.SubmitFeedback(context.Background(), review.Feedback{}); !errors.Is(err, review.ErrNetworkUnavailable) {
		t.Errorf("submit err = %v, want ErrNetworkUnavailable", err)
	}
}

func TestControllerOverHTTP(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			w.Write([]byte(`[{"id":1,"text":"A"},{"id":2,"text":"B"}]`))
		case "/api/submit-feedback":
			posts++
			w.Write([]byte(`{"status":"success"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctrl := review.NewController(newClient(t, srv.URL), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := ctrl.Approve(context.Background()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	out, err := ctrl.Correct(context.Background(), "B-fixed")
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if !out.Reloaded {
		t.Error("expected reload after last item")
	}
	if cursor, _ := ctrl.Position(); cursor != 0 {
		t.Errorf("cursor = %d, want 0", cursor)
	}
	if posts != 2 {
		t.Errorf("posts = %d, want 2", posts)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  client.Config
	}{
		{"bad url", client.Config{BaseURL: "localhost"}},
		{"bad products path", client.Config{ProductsPath: "products"}},
		{"bad timeout", client.Config{Timeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_CLIENT_BASE_URL", "http://review.internal:9000")
	t.Setenv("TEST_CLIENT_TIMEOUT", "3s")

	cfg := &client.Config{}
	err := cfg.Finalize(&client.Env{
		BaseURL: "TEST_CLIENT_BASE_URL",
		Timeout: "TEST_CLIENT_TIMEOUT",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.BaseURL != "http://review.internal:9000" {
		t.Errorf("base_url = %s", cfg.BaseURL)
	}
	if cfg.TimeoutDuration().Seconds() != 3 {
		t.Errorf("timeout = %v", cfg.TimeoutDuration())
	}
	if cfg.ProductsPath != "/api/products" {
		t.Errorf("products_path = %s", cfg.ProductsPath)
	}
}
