// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gavinf97/DOME-Copilot-Data-Analysis/internal/httputil"
	"github.com/gavinf97/DOME-Copilot-Data-Analysis/pkg/types"
)

const (
	// DefaultTimeout is the per-request timeout when none is configured.
	DefaultTimeout = 10 * time.Second

	// DefaultRequestsPerSecond keeps all providers under NCBI's
	// unauthenticated limit of three requests per second.
	DefaultRequestsPerSecond = 3.0

	// DefaultTool is the tool name reported to NCBI.
	DefaultTool = "dome_copilot"

	// maxBodySize caps how much of a provider response is read.
	maxBodySize = 16 << 20
)

// Client carries the HTTP session and politeness settings shared by every
// provider.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	email      string
	tool       string
	retryDelay time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLimiter replaces the request rate limiter.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a Client from cfg, filling in defaults for unset fields.
func NewClient(cfg types.ResolverConfig, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	tool := cfg.Tool
	if tool == "" {
		tool = DefaultTool
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		userAgent:  UserAgent(cfg.UserAgent, cfg.ContactEmail),
		email:      cfg.ContactEmail,
		tool:       tool,
		retryDelay: cfg.RetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent appends a mailto contact to base, the form CrossRef asks for to
// route requests to its polite pool.
func UserAgent(base, email string) string {
	if base == "" {
		base = "dome-copilot/0.1"
	}
	if email == "" {
		return base
	}
	return fmt.Sprintf("%s (mailto:%s)", base, email)
}

// StatusError reports a non-200 response from a provider.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.Code)
}

// get fetches rawURL and returns the response body. Non-200 responses are
// reported as *StatusError.
func (c *Client) get(ctx context.Context, provider, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", provider, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	var limiter httputil.Waiter
	if c.limiter != nil {
		limiter = c.limiter
	}
	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.retryDelay, limiter)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Provider: provider, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", provider, err)
	}
	return body, nil
}

// getJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, provider, rawURL string, v any) error {
	body, err := c.get(ctx, provider, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("parsing %s response: %w", provider, err)
	}
	return nil
}

// flexString decodes a JSON string or number into a string. NCBI and
// Europe PMC are not consistent about quoting numeric identifiers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
