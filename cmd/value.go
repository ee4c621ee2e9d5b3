package cmd

import (
	"context"
	"flag"

	"github.com/globalfolio/folio"
	"github.com/globalfolio/folio/fx"
	"github.com/globalfolio/folio/mfapi"
	"github.com/globalfolio/folio/renderer"
	"github.com/globalfolio/folio/yahoo"
	"github.com/google/subcommands"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	currency string
	usFile   string
	inFile   string
	mfFile   string
	crFile   string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value the whole portfolio from live quotes" }
func (*valueCmd) Usage() string {
	return `gft value [-c <currency>] [-us <file>] [-in <file>] [-mf <file>] [-crypto <file>]

  Values every asset category from its CSV file, converts to the reporting
  currency and prints per-category tables and the grand total. A missing
  file skips that category with a notice, the others are still valued.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "USD", "Reporting currency for market values")
	f.StringVar(&c.usFile, "us", "us_portfolio.csv", "US equities holdings file")
	f.StringVar(&c.inFile, "in", "indian_portfolio.csv", "Indian equities holdings file")
	f.StringVar(&c.mfFile, "mf", "mutual_funds.csv", "Mutual funds holdings file")
	f.StringVar(&c.crFile, "crypto", "crypto_portfolio.csv", "Crypto holdings file")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()

	// one cache, one fetcher per provider, all categories of a provider
	// share its fetcher
	cache := folio.NewQuoteCache()
	stocks := folio.NewFetcher(
		yahoo.NewClient(yahoo.WithLogger(log)),
		cache,
		folio.WithLogger(log),
	)
	funds := folio.NewFetcher(
		mfapi.NewClient(mfapi.WithLogger(log)),
		cache,
		folio.WithLogger(log),
	)

	categories := []folio.Category{
		{
			Name:     "US equities",
			Currency: "USD",
			Fetcher:  stocks,
			Source: &folio.CSVSource{
				Name: "US equities", Path: c.usFile, Currency: "USD",
				IDCol: folio.ColTicker, QtyCol: folio.ColShares, CostCol: folio.ColCostBasis,
			},
		},
		{
			Name:     "Indian equities",
			Currency: "INR",
			Fetcher:  stocks,
			Source: &folio.CSVSource{
				Name: "Indian equities", Path: c.inFile, Currency: "INR",
				IDCol: folio.ColTicker, QtyCol: folio.ColShares, CostCol: folio.ColCostBasis,
			},
		},
		{
			Name:     "Mutual funds",
			Currency: "INR",
			Fetcher:  funds,
			Source: &folio.CSVSource{
				Name: "Mutual funds", Path: c.mfFile, Currency: "INR",
				IDCol: folio.ColSchemeCode, QtyCol: folio.ColUnits,
			},
		},
		{
			Name:     "Crypto",
			Currency: "USD",
			Fetcher:  stocks,
			Source: &folio.CSVSource{
				Name: "Crypto", Path: c.crFile, Currency: "USD",
				IDCol: folio.ColTicker, QtyCol: folio.ColUnits,
			},
		},
	}

	composer := folio.NewComposer(c.currency, fx.NewClient(fx.WithLogger(log)), categories, log)
	report := composer.Run(ctx)

	printMarkdown(renderer.RenderReport(renderer.NewReport(report)))
	return subcommands.ExitSuccess
}
