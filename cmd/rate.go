package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/globalfolio/folio/fx"
	"github.com/google/subcommands"
)

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show the conversion rate between two currencies" }
func (*rateCmd) Usage() string {
	return `gft rate <from> <to>

Usage Examples:
$ gft rate INR USD
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected <from> and <to> currency codes")
		return subcommands.ExitUsageError
	}
	from, to := f.Arg(0), f.Arg(1)

	rate, err := fx.NewClient(fx.WithLogger(Logger())).Rate(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching rate: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s/%s %s\n", from, to, rate)
	return subcommands.ExitSuccess
}
