package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sjc5/routekit/pkg/colorlog"
	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/tsgen"
	"github.com/spf13/cobra"
)

func routesCmd() *cobra.Command {
	var (
		asJSON bool
		tsDir  string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes of the example app",
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := newExampleApp(colorlog.New("routekit")).d.Routes()

			if tsDir != "" {
				if err := tsgen.Write(tsgen.Opts{OutDest: tsDir, Routes: routes}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", tsgen.DefaultFileName)
				return nil
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(routes)
			}
			return printRoutes(cmd.OutOrStdout(), routes)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	cmd.Flags().StringVar(&tsDir, "ts", "", "Write a TypeScript route manifest to this directory")
	return cmd
}

func printRoutes(out io.Writer, routes []dispatch.RouteInfo) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHODS\tPATH\tKEYS")
	for _, r := range routes {
		keys := make([]string, len(r.Keys))
		for i, k := range r.Keys {
			keys[i] = k.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", strings.Join(r.Methods, ","), r.Path, strings.Join(keys, ","))
	}
	return tw.Flush()
}
