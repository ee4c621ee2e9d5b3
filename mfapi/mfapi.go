// Package mfapi implements a quote provider backed by api.mfapi.in, the
// public NAV service for Indian mutual funds. Instrument identifiers are
// AMFI scheme codes and NAVs are quoted in INR.
package mfapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/globalfolio/folio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the mfapi.in API.
	DefaultBaseURL = "https://api.mfapi.in"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request smoothing (requests per second).
	DefaultRateLimit = 5

	// navCurrency is the currency all NAVs are quoted in.
	navCurrency = "INR"
)

// latestNAVPath selects the newest NAV entry of the scheme payload, which
// mfapi returns first in its data list.
const latestNAVPath = "$.data[0].nav"

// Client is a mfapi.in NAV client. It implements folio.QuoteProvider.
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

// NewClient creates a new mfapi.in client.
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
func (c *Client) Name() string { return "mfapi.in" }

// Quotes resolves the latest NAV for every scheme code in the batch. The
// service only answers one scheme per round trip, so the batch iterates
// internally; schemes the service cannot answer are absent from the
// returned map. A throttling response aborts the whole batch as
// *folio.RateLimitError so the fetcher can back off; cancellation aborts
// the remainder of the batch with the context error.
func (c *Client) Quotes(ctx context.Context, ids []string) (map[string]folio.Money, error) {
	quotes := make(map[string]folio.Money, len(ids))
	for _, id := range ids {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		nav, err := c.latestNAV(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var rl *folio.RateLimitError
			if errors.As(err, &rl) {
				return nil, err
			}
			// scheme-level failures leave the scheme unresolved, the
			// fetcher records it as not found
			c.log.Warn().Err(err).Str("scheme", id).Msg("no NAV")
			continue
		}
		quotes[folio.NormalizeID(id)] = folio.M(nav, navCurrency)
	}
	return quotes, nil
}

func (c *Client) latestNAV(ctx context.Context, scheme string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/mf/%s", c.baseURL, url.PathEscape(scheme))

	var doc any
	if err := folio.JSONGet(ctx, c.httpClient, addr, &doc); err != nil {
		var se *folio.StatusError
		if errors.As(err, &se) && se.Status == http.StatusTooManyRequests {
			return decimal.Zero, &folio.RateLimitError{Provider: c.Name()}
		}
		return decimal.Zero, err
	}

	jval, err := jsonpath.Get(latestNAVPath, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no NAV data for scheme %s: %w", scheme, err)
	}
	s, ok := jval.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected NAV payload for scheme %s: %v", scheme, jval)
	}
	nav, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid NAV %q for scheme %s: %w", s, scheme, err)
	}
	return nav, nil
}
