package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/globalfolio/folio/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// local settings, absence is fine
	_ = godotenv.Load()

	// shell completion, a no-op outside of a completion request
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"value": {Flags: map[string]complete.Predictor{
				"c":      predict.Set{"USD", "EUR", "INR"},
				"us":     predict.Files("*.csv"),
				"in":     predict.Files("*.csv"),
				"mf":     predict.Files("*.csv"),
				"crypto": predict.Files("*.csv"),
			}},
			"quotes": {},
			"rate":   {Args: predict.Set{"USD", "EUR", "INR"}},
			"topic":  {Args: predict.Set{"readme", "categories", "providers", "quotes"}},
		},
	}
	completion.Complete("gft")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "documentation")
	commander.Register(commander.FlagsCommand(), "documentation")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
