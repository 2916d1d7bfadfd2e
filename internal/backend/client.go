// Package backend is the HTTP client for the Aether backend: idea submission
// plus the dashboard and notification feeds.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aether-ai/aether/internal/buildinfo"
	"github.com/aether-ai/aether/internal/models"
)

// API paths relative to the base URL.
const (
	IdeasPath         = "/api/v1/ideas"
	DashboardPath     = "/api/v1/dashboard"
	NotificationsPath = "/api/v1/notifications"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// RejectedError is returned when the backend answered with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("backend rejected request with status %d", e.StatusCode)
}

// UnreachableError is returned when no usable answer came back: connection
// failures, timeouts, or a response body that could not be read.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// Client talks to the Aether backend. The base URL and timeout can be
// swapped at runtime (settings reload); each call reads them once.
type Client struct {
	httpClient *http.Client
	now        func() time.Time

	mu      sync.RWMutex
	baseURL string
	timeout time.Duration
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := &Client{
		httpClient: &http.Client{},
		now:        time.Now,
	}
	c.Configure(baseURL, timeout)
	return c
}

// Configure replaces the base URL and timeout used by subsequent calls.
func (c *Client) Configure(baseURL string, timeout time.Duration) {
	if timeout <= 0 {
		timeout = models.DefaultBackendTimeout
	}
	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.timeout = timeout
	c.mu.Unlock()
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

func (c *Client) endpoint(path string) (string, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL + path, c.timeout
}

// SubmitIdea posts an idea and returns the response body verbatim on 2xx.
// Failures are *RejectedError or *UnreachableError. It is attempted once.
func (c *Client) SubmitIdea(ctx context.Context, content string) (string, error) {
	url, timeout := c.endpoint(IdeasPath)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(models.NewIdeaRecord(content, c.now()))
	if err != nil {
		return "", fmt.Errorf("encode idea: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &UnreachableError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("X-Request-ID", uuid.NewString())

	log.Printf("[backend] Sending idea (%d bytes) to %s", len(content), url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RejectedError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err != nil {
		return "", &UnreachableError{Err: fmt.Errorf("read response: %w", err)}
	}
	return string(body), nil
}

// getJSON fetches path and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	url, timeout := c.endpoint(path)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
