// Package client talks to the suggestion service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/habit-tasks/internal/model"
)

// Endpoint paths on the suggestion service.
const (
	SuggestPath  = "/suggest"
	FeedbackPath = "/feedback"
)

// maxErrorBody bounds how much of a failed response body is kept for error messages.
const maxErrorBody = 512

// ErrDecodeResponse indicates the service answered with a body that is not the expected JSON.
var ErrDecodeResponse = errors.New("failed to decode response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Body string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client posts habits and feedback to the suggestion service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest posts habits and returns the suggested tasks. A response without a
// suggestions field yields an empty slice.
func (c *Client) Suggest(ctx context.Context, habits string) ([]string, error) {
	var resp model.SuggestResponse
	if err := c.post(ctx, SuggestPath, model.SuggestRequest{Habits: habits}, &resp); err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return resp.Items(), nil
}

// Feedback posts a single rating and reports whether the service accepted it.
func (c *Client) Feedback(ctx context.Context, event model.FeedbackEvent) (bool, error) {
	var resp model.FeedbackResponse
	if err := c.post(ctx, FeedbackPath, event, &resp); err != nil {
		return false, fmt.Errorf("feedback: %w", err)
	}
	return resp.OK, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	return nil
}
