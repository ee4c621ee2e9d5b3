// Package yahoo implements a quote provider backed by the Yahoo Finance
// quote API. It covers equities and crypto tickers, and resolves a whole
// batch of symbols in a single HTTP round trip.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/globalfolio/folio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request smoothing (requests per second).
	DefaultRateLimit = 2
)

// Client is a Yahoo Finance quote client. It implements folio.QuoteProvider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
	limiter    *rate.Limiter
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

// WithRateLimit sets a custom local request smoothing rate.
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Yahoo Finance client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zerolog.Nop(),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements folio.QuoteProvider.
func (c *Client) Name() string { return "yahoo-finance" }

// Quotes fetches the current price for all symbols in one batched request.
// Symbols unknown to Yahoo are absent from the returned map. A throttling
// response is classified as *folio.RateLimitError, cancellation surfaces
// as the context error, any other failure as *folio.TransientError.
func (c *Client) Quotes(ctx context.Context, ids []string) (map[string]folio.Money, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, &folio.TransientError{Provider: c.Name(), Err: err}
	}
	// Yahoo rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; gft)")

	c.log.Debug().Int("symbols", len(ids)).Msg("quote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &folio.TransientError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &folio.RateLimitError{
			Provider:   c.Name(),
			RetryAfter: retryAfter(resp),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &folio.TransientError{
			Provider: c.Name(),
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var payload struct {
		QuoteResponse struct {
			Result []struct {
				Symbol   string          `json:"symbol"`
				Price    decimal.Decimal `json:"regularMarketPrice"`
				Currency string          `json:"currency"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &folio.TransientError{Provider: c.Name(), Err: fmt.Errorf("cannot parse response: %w", err)}
	}

	quotes := make(map[string]folio.Money, len(payload.QuoteResponse.Result))
	for _, r := range payload.QuoteResponse.Result {
		quotes[folio.NormalizeID(r.Symbol)] = folio.M(r.Price, r.Currency)
	}
	c.log.Debug().Int("resolved", len(quotes)).Msg("quote response")
	return quotes, nil
}

// retryAfter reads the Retry-After response header, zero when absent.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
