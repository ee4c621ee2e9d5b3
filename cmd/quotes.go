package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/globalfolio/folio"
	"github.com/globalfolio/folio/yahoo"
	"github.com/google/subcommands"
)

// quotesCmd holds the flags for the 'quotes' subcommand.
type quotesCmd struct{}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "fetch current quotes for a list of symbols" }
func (*quotesCmd) Usage() string {
	return `gft quotes <symbol>...

  Fetches the current price for each symbol in one batched request and
  prints them. Symbols without data are reported with their reason.

Usage Examples:
$ gft quotes AAPL MSFT BTC-USD
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {}

func (c *quotesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := f.Args()
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}

	log := Logger()
	fetcher := folio.NewFetcher(
		yahoo.NewClient(yahoo.WithLogger(log)),
		folio.NewQuoteCache(),
		folio.WithLogger(log),
	)

	quotes := fetcher.Fetch(ctx, symbols)

	ids := make([]string, 0, len(quotes))
	for id := range quotes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	status := subcommands.ExitSuccess
	for _, id := range ids {
		q := quotes[id]
		if q.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", id, q.Err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s\t%s\n", id, q.Price)
	}
	return status
}
