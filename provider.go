package folio

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteProvider is the boundary to an external market data service.
//
// Quotes must support batched multi-id requests: one call covers all
// requested identifiers in a single provider round trip. Identifiers the
// provider has no data for are simply absent from the returned map.
// Failures are classified at this boundary: a throttling response is
// returned as *RateLimitError, anything else as *TransientError.
// Cancellation is not classified, it surfaces as the context error.
type QuoteProvider interface {
	Name() string
	Quotes(ctx context.Context, ids []string) (map[string]Money, error)
}

// RateProvider is the boundary to an external currency rate service.
// It returns the scalar conversion rate from one currency to another.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// HoldingsSource is the boundary to a tabular holdings input for one
// category. Rows missing an identifier are dropped before reaching the
// engine. An entirely absent source returns *SourceMissingError.
type HoldingsSource interface {
	Holdings() ([]Holding, error)
}
