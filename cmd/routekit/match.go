package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sjc5/routekit/pkg/errutil"
	"github.com/sjc5/routekit/pkg/pathmatch"
	"github.com/spf13/cobra"
)

type patternFlags struct {
	caseSensitive bool
	strict        bool
	prefix        bool
}

func (f *patternFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "Match case sensitively")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Treat a trailing slash as significant")
	cmd.Flags().BoolVar(&f.prefix, "prefix", false, "Match a path prefix, as middleware does")
}

func (f *patternFlags) options() pathmatch.Options {
	return pathmatch.Options{CaseSensitive: f.caseSensitive, Strict: f.strict, End: !f.prefix}
}

// compilePattern treats a pattern wrapped in slashes, like /^\/a$/, as
// a regular expression.
func compilePattern(pattern string, opts pathmatch.Options) (*pathmatch.Matcher, error) {
	var spec any = pattern
	if len(pattern) > 2 && strings.HasPrefix(pattern, "/^") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return nil, errutil.Maybe("invalid regular expression", err)
		}
		spec = re
	}
	return pathmatch.Compile(spec, opts)
}

func matchCmd() *cobra.Command {
	var flags patternFlags

	cmd := &cobra.Command{
		Use:   "match <pattern> <path>",
		Short: "Match a path against a pattern and print the params",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := compilePattern(args[0], flags.options())
			if err != nil {
				return err
			}
			match, err := m.Match(args[1])
			if err != nil {
				return err
			}
			if match == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return nil
			}

			out := struct {
				Path   string            `json:"path"`
				Params map[string]string `json:"params"`
			}{match.Path, match.Map()}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	flags.register(cmd)
	return cmd
}

func regexpCmd() *cobra.Command {
	var flags patternFlags

	cmd := &cobra.Command{
		Use:   "regexp <pattern>",
		Short: "Print the regular expression a pattern compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := compilePattern(args[0], flags.options())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, re := range m.Regexps() {
				fmt.Fprintln(out, re)
			}
			for _, k := range m.Keys() {
				fmt.Fprintf(out, "  %s (%s)\n", k.Name, k.Type)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
