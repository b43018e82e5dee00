package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// API is the set of calls the sync engine makes against the to-do collection.
// It is implemented by *Client.
type API interface {
	List(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, title string) (Item, error)
	SetCompleted(ctx context.Context, id ID, completed bool) (Item, error)
	Delete(ctx context.Context, id ID) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to a REST to-do collection.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    *slog.Logger
	userAgent string
}

// Options tune a Client. The zero value applies no timeout and no breaker.
type Options struct {
	// Timeout bounds each request; zero waits indefinitely.
	Timeout time.Duration
	// BreakerFailures trips the circuit after that many consecutive failures;
	// zero disables the breaker.
	BreakerFailures int
	// BreakerCooldown is how long the circuit stays open before probing.
	BreakerCooldown time.Duration
	Logger          *slog.Logger
	// HTTPClient overrides the transport; Timeout still applies when set.
	HTTPClient *http.Client
}

const (
	defaultBaseURL         = "http://localhost:5001"
	defaultUserAgent       = "todos/0.1"
	defaultBreakerCooldown = 30 * time.Second
	collectionPath         = "todos"
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// NewClient builds a Client for the collection rooted at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if opts.Timeout > 0 {
		dup := *httpClient
		dup.Timeout = opts.Timeout
		httpClient = &dup
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		baseURL:   base,
		http:      httpClient,
		logger:    logger,
		userAgent: defaultUserAgent,
	}
	if opts.BreakerFailures > 0 {
		c.breaker = newBreaker(base.Host, opts.BreakerFailures, opts.BreakerCooldown, logger)
	}
	return c, nil
}

// BaseURL returns the normalized root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var items []Item
	if err := c.do(ctx, http.MethodGet, c.endpoint(), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("decode response: expected array, got null")
	}
	return items, nil
}

// Create posts a new, not yet completed item and returns the server's copy.
func (c *Client) Create(ctx context.Context, title string) (Item, error) {
	if c == nil {
		return Item{}, fmt.Errorf("client is nil")
	}
	var created Item
	body := CreateRequest{Title: title, Completed: false}
	if err := c.do(ctx, http.MethodPost, c.endpoint(), body, &created); err != nil {
		return Item{}, err
	}
	return created, nil
}

// SetCompleted patches the completion flag of one item and returns the
// server's updated copy.
func (c *Client) SetCompleted(ctx context.Context, id ID, completed bool) (Item, error) {
	if c == nil {
		return Item{}, fmt.Errorf("client is nil")
	}
	if id.IsZero() {
		return Item{}, fmt.Errorf("item id required")
	}
	var updated Item
	body := PatchRequest{Completed: completed}
	if err := c.do(ctx, http.MethodPatch, c.endpoint(id), body, &updated); err != nil {
		return Item{}, err
	}
	return updated, nil
}

// Delete removes one item. Any response body is discarded.
func (c *Client) Delete(ctx context.Context, id ID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id.IsZero() {
		return fmt.Errorf("item id required")
	}
	return c.do(ctx, http.MethodDelete, c.endpoint(id), nil, nil)
}

func (c *Client) endpoint(id ...ID) *url.URL {
	segments := []string{collectionPath}
	for _, v := range id {
		segments = append(segments, url.PathEscape(v.String()))
	}
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, body, dest any) error {
	if c.breaker == nil {
		return c.roundTrip(ctx, method, target, body, dest)
	}
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, target, body, dest)
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, method string, target *url.URL, body, dest any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			slog.String("method", method),
			slog.String("path", target.Path),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", target.Path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: target.Path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	// Unmarshal rejects trailing data after the first value.
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newBreaker(name string, failures int, cooldown time.Duration, logger *slog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = "/" + strings.Trim(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
