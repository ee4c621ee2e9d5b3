package folio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Category binds one asset class to its holdings source and its quote
// fetcher. Instruments of a category are all quoted in the same currency.
type Category struct {
	Name     string
	Currency string
	Source   HoldingsSource
	Fetcher  *Fetcher
}

// CategoryReport is the valuation outcome of one category.
type CategoryReport struct {
	Name     string
	Currency string
	Rate     decimal.Decimal
	// RateFallback is true when the rate provider failed and the
	// documented rate=1 fallback was applied.
	RateFallback bool
	Holdings     []ValuedHolding
	Skips        []Skip
	Total        Money
	// Err is set when the whole category could not be valued, typically
	// *SourceMissingError. The category then contributes zero.
	Err error
}

// Report is the valuation of the whole portfolio in the reporting
// currency.
type Report struct {
	Currency   string
	Categories []CategoryReport
	Total      Money
	// Notices are the category-level degradations of this run: skipped
	// categories and rate fallbacks, each reported individually.
	Notices []string
}

// Composer values each category and combines them into a grand total.
//
// Categories are independent, they share no mutable state except the
// quote cache, so they run concurrently. A missing or malformed source
// for one category never prevents the others from being valued.
type Composer struct {
	currency   string
	rates      RateProvider
	categories []Category
	log        zerolog.Logger
}

// NewComposer creates a Composer reporting in the given currency.
func NewComposer(currency string, rates RateProvider, categories []Category, log zerolog.Logger) *Composer {
	return &Composer{currency: currency, rates: rates, categories: categories, log: log}
}

// Run values every category and returns the combined report. The grand
// total is exactly the sum of the category totals, which are themselves
// exactly the sums of their holdings' market values: a failure never
// silently contributes a zero that looks like a valuation.
func (c *Composer) Run(ctx context.Context) *Report {
	reports := make([]CategoryReport, len(c.categories))

	var g errgroup.Group
	for i, cat := range c.categories {
		i, cat := i, cat
		g.Go(func() error {
			reports[i] = c.runCategory(ctx, cat)
			return nil
		})
	}
	// workers never return an error, failures are isolated per category
	_ = g.Wait()

	report := &Report{Currency: c.currency, Categories: reports}
	total := M(0, c.currency)
	for _, r := range reports {
		if r.Err != nil {
			report.Notices = append(report.Notices, fmt.Sprintf("%s unavailable: %v", r.Name, r.Err))
			continue
		}
		if r.RateFallback {
			report.Notices = append(report.Notices,
				fmt.Sprintf("%s: %s/%s rate unavailable, valued at rate 1", r.Name, r.Currency, c.currency))
		}
		total = total.Add(r.Total)
	}
	report.Total = total
	return report
}

func (c *Composer) runCategory(ctx context.Context, cat Category) CategoryReport {
	rep := CategoryReport{
		Name:     cat.Name,
		Currency: cat.Currency,
		Rate:     decimal.NewFromInt(1),
		Total:    M(0, c.currency),
	}
	log := c.log.With().Str("category", cat.Name).Logger()

	holdings, err := cat.Source.Holdings()
	if err != nil {
		log.Warn().Err(err).Msg("category skipped")
		rep.Err = err
		return rep
	}

	if cat.Currency != c.currency {
		rate, err := c.rates.Rate(ctx, cat.Currency, c.currency)
		if err != nil {
			// documented fallback: value the category at rate 1 and say so
			log.Warn().Err(err).
				Str("from", cat.Currency).
				Str("to", c.currency).
				Msg("rate unavailable, falling back to 1")
			rep.RateFallback = true
		} else {
			rep.Rate = rate
		}
	}

	quotes := cat.Fetcher.Fetch(ctx, IDs(holdings))
	rep.Holdings, rep.Skips, rep.Total = Value(holdings, quotes, rep.Rate, c.currency)

	for _, s := range rep.Skips {
		log.Warn().Str("id", s.ID).Str("reason", s.Reason).Msg("holding skipped")
	}
	log.Info().
		Int("holdings", len(rep.Holdings)).
		Int("skipped", len(rep.Skips)).
		Str("total", rep.Total.String()).
		Msg("category valued")
	return rep
}
