package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jvitoroc/selcheck/formatter"
	"github.com/jvitoroc/selcheck/oracle"
)

func newCheckCmd(a *app) *cobra.Command {
	var skipSemantic bool

	checkCmd := &cobra.Command{
		Use:   "check A B",
		Short: "Check whether two selection expressions are equivalent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options()
			opts.SkipSemantic = skipSemantic

			v := oracle.New(opts).Check(args[0], args[1])
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatVerdict(args[0], args[1], v))

			if !v.Pass() {
				a.logger.Debug("Check failed", zap.String("a", args[0]), zap.String("b", args[1]))
				return ErrNotEquivalent
			}

			return nil
		},
	}

	checkCmd.Flags().BoolVar(&skipSemantic, "skip-semantic", false, "Only compare canonical trees")

	return checkCmd
}
