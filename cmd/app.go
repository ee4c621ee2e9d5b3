// Package cmd implements the CLI application to value a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&valueCmd{}, "valuation")
	c.Register(&quotesCmd{}, "valuation")
	c.Register(&rateCmd{}, "valuation")
	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var verbose = flag.Bool("v", false, "enable debug logging")

// Logger returns the application logger, writing human-readable lines to
// stderr so reports on stdout stay clean.
func Logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// printMarkdown renders markdown to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
