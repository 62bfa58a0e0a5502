// Package client implements the review backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/curator/pkg/review"
)

const maxErrorBody = 512

// Client talks to the products service. It satisfies review.Backend.
type Client struct {
	http         *http.Client
	baseURL      string
	productsPath string
	feedbackPath string
	logger       *slog.Logger
}

// New creates a Client from a finalized Config.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:         &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		productsPath: cfg.ProductsPath,
		feedbackPath: cfg.FeedbackPath,
		logger:       logger.With("system", "client"),
	}
}

// Products fetches the pending listing and returns the raw body for review.ParseRecords.
func (c *Client) Products(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.productsPath, nil)
}

// SubmitFeedback posts one decision and decodes the acknowledgement.
func (c *Client) SubmitFeedback(ctx context.Context, fb review.Feedback) (review.Ack, error) {
	body, err := c.do(ctx, http.MethodPost, c.feedbackPath, fb)
	if err != nil {
		return review.Ack{}, err
	}

	var ack review.Ack
	if len(bytes.TrimSpace(body)) == 0 {
		return ack, nil
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return review.Ack{}, fmt.Errorf("%w: decode acknowledgement: %v", review.ErrBackend, err)
	}
	return ack, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", review.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", review.ErrNetworkUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("backend returned error", "method", method, "path", path, "status", resp.StatusCode)
		return nil, &review.BackendError{
			Status: resp.StatusCode,
			Body:   errorMessage(body),
		}
	}

	return body, nil
}

// errorMessage extracts the {"error": "..."} message when present, else a trimmed body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
