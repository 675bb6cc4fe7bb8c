package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jvitoroc/selcheck/formatter"
	"github.com/jvitoroc/selcheck/probe"
)

func newProbesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probes A B",
		Short: "Show the probe values the semantic check would use",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options()
			deny := opts.Probes.Deny

			vars := probe.Union(probe.Variables(args[0], deny), probe.Variables(args[1], deny))
			set := probe.Candidates(args[0], args[1], opts.Probes)

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProbes(vars, set))

			if n := probe.Count(vars, set); opts.MaxProbes > 0 && n > opts.MaxProbes {
				return &probe.LimitError{Count: n, Limit: opts.MaxProbes}
			}

			return nil
		},
	}
}
