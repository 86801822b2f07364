// Package ledger is the HTTP client for the platform's wallet/billing API.
//
// It fetches paginated wallet transactions and the server's precomputed
// monthly summary. The client owns no retry policy: a transport failure is
// returned to the caller as-is. Callers that want retries inject an
// *http.Client that performs them (cmd/ wires hashicorp/go-retryablehttp).
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the wallet/billing API with bearer-token auth.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. This is how callers opt
// into retries or custom timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a logger for request-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a wallet API client.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage retrieves one page of wallet transactions.
// A ledger with no further data at the given offset yields an empty page
// with HasMore false, not an error.
func (c *Client) FetchPage(ctx context.Context, limit, offset int) (*Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint := c.baseURL + "/wallet/transactions?" + q.Encode()

	var page Page
	if err := c.getJSON(ctx, endpoint, "/wallet/transactions", &page); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched ledger page",
		slog.Int("offset", offset),
		slog.Int("count", len(page.Transactions)),
		slog.Bool("has_more", page.HasMore),
	)

	return &page, nil
}

// FetchSummary retrieves the server's precomputed monthly billing summary.
func (c *Client) FetchSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.getJSON(ctx, c.baseURL+"/billing/summary", "/billing/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, name string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("ledger: build request for %s: %w", name, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: request %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Endpoint: name}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ledger: decode %s response: %w", name, err)
	}

	return nil
}
