// Package api provides the typed HTTP client for the Parley orchestration
// backend. All business logic (provider dispatch, turn-taking, persistence)
// lives server-side; this client is a thin JSON boundary with explicit types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mayeuticsapp/parley/internal/metrics"
)

// Client talks to the Parley REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	collector  *metrics.Collector
}

// SetCollector attaches a session stats collector. Must be called before the
// client is shared between goroutines.
func (c *Client) SetCollector(col *metrics.Collector) {
	c.collector = col
}

// New creates a new API client.
// If baseURL is empty, uses the PARLEY_SERVER_URL env var or defaults to
// localhost:5000. Timeout can be configured via PARLEY_CLIENT_TIMEOUT
// (default 5m: auto-continue holds the request open while the backend
// generates every turn).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("PARLEY_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:5000/api"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 5 * time.Minute
	if t := os.Getenv("PARLEY_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the uniform response wrapper. Older backend revisions reported
// failures under "message", current ones under "error"; both are accepted.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e envelope) failure() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "unknown error"
}

// do sends one JSON request and decodes the enveloped response into result.
// It distinguishes the three remote failure classes: transport errors,
// non-2xx statuses, and success statuses carrying an application-level
// failure flag.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) (err error) {
	if c.collector != nil {
		start := time.Now()
		defer func() {
			c.collector.RecordRequest(classifyOp(method, path), time.Since(start), err != nil)
		}()
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("api error: %s", env.failure())
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	return nil
}

// classifyOp buckets a request for the stats collector.
func classifyOp(method, path string) string {
	switch {
	case strings.HasSuffix(path, "/auto-continue"):
		return metrics.OpAutoContinue
	case strings.HasSuffix(path, "/messages") && method != http.MethodGet:
		return metrics.OpMessage
	case method == http.MethodGet:
		return metrics.OpRead
	default:
		return metrics.OpWrite
	}
}
