package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routekit",
		Short: "Inspect path patterns and serve an example dispatcher",
		Long: `routekit is the command line companion of the routekit dispatch engine.

It compiles and tests path patterns, lists the routes of the example
app, generates a TypeScript route manifest and serves the example app
over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		matchCmd(),
		regexpCmd(),
		routesCmd(),
		serveCmd(),
	)
	return cmd
}
