package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is used when no backend URL is configured.
	DefaultBaseURL = "http://localhost:3002"
	// DefaultUserAgent identifies the storefront to the Backend Gateway.
	DefaultUserAgent = "SHONRA-Frontend/1.0"
)

// Config configures a gateway Client.
type Config struct {
	BaseURL string
	// Timeout bounds calls whose context carries no deadline.
	Timeout   time.Duration
	UserAgent string
	Debug     bool
	// MarketplaceLimiter throttles calls that reach the external marketplace
	// search proxy. Nil disables throttling.
	MarketplaceLimiter *rate.Limiter
}

// Client talks to the Backend Gateway over JSON/HTTP.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	baseURL     string
	userAgent   string
	debug       bool
	marketplace *rate.Limiter
}

// Response is a raw gateway answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the gateway answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient constructs a gateway client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Client{
		httpClient:  &http.Client{},
		timeout:     cfg.Timeout,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		debug:       cfg.Debug,
		marketplace: cfg.MarketplaceLimiter,
	}
}

// BaseURL returns the gateway origin without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type authTokenKey struct{}

// WithAuthToken returns a context whose gateway calls carry the bearer token.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, authTokenKey{}, token)
}

func authToken(ctx context.Context) string {
	token, _ := ctx.Value(authTokenKey{}).(string)
	return token
}

// Do performs a single gateway call and returns the raw response regardless of
// its status code. body, when non-nil, is sent as JSON.
// Without a caller deadline the call is bounded by the client timeout.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		switch b := body.(type) {
		case json.RawMessage:
			payload = b
		case []byte:
			payload = b
		default:
			payload, err = json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request: %w", err)
			}
		}
	}

	if c.debug {
		ev := log.Debug().
			Str("method", method).
			Str("endpoint", endpoint)
		if len(payload) > 0 && json.Valid(payload) {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[GATEWAY] Outgoing request")
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := authToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		ev := log.Debug().
			Str("method", method).
			Str("endpoint", path).
			Int("status_code", resp.StatusCode).
			Dur("latency", time.Since(start))
		if json.Valid(respBody) {
			ev = ev.RawJSON("response", respBody)
		}
		ev.Msg("[GATEWAY] Incoming response")
	}

	header := resp.Header.Clone()
	header.Del("Content-Encoding")
	header.Del("Content-Length")
	return &Response{StatusCode: resp.StatusCode, Header: header, Body: respBody}, nil
}

// Forward is Do that turns a non-2xx answer into an *APIError.
func (c *Client) Forward(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, NewAPIError(resp.StatusCode, resp.Body)
	}
	return resp, nil
}

// getJSON forwards a call and returns the decoded envelope data.
func getJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T
	resp, err := c.Forward(ctx, method, path, query, body)
	if err != nil {
		return zero, err
	}
	var env Envelope[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		if env.Message != "" {
			return zero, fmt.Errorf("%w: %s", ErrUnsuccessful, env.Message)
		}
		return zero, ErrUnsuccessful
	}
	return env.Data, nil
}
