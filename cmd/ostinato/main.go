package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	oerrors "github.com/ostinato-fm/ostinato/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ostinato",
		Short: "Music recommendations web server",
		Long: `Ostinato serves per-user music recommendation pages.

Routes are declared as a lazy route table: page components load on
first request and pre-render loaders fetch the recommendation payload
before a page renders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var cliErr *oerrors.Error
		if errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, cliErr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}
