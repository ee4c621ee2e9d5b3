// Package fx implements a currency rate provider backed by
// exchangerate-api.com.
package fx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/globalfolio/folio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the base URL of the rate API.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// Client is an exchangerate-api.com client. It implements
// folio.RateProvider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a new exchangerate-api.com client. Rates move slowly,
// so by default responses are served through the daily disk cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: folio.NewDailyCachingClient(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the scalar conversion rate from one currency to another.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	addr := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(from))

	var result struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := folio.JSONGet(ctx, c.httpClient, addr, &result); err != nil {
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}

	rate, ok := result.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate not found for %s->%s", from, to)
	}

	c.log.Info().
		Str("from", from).
		Str("to", to).
		Str("rate", rate.String()).
		Msg("fetched rate")
	return rate, nil
}
