package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jvitoroc/selcheck/config"
	"github.com/jvitoroc/selcheck/formatter"
	"github.com/jvitoroc/selcheck/oracle"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers    int
		jsonOutput bool
	)

	batchCmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Check every pair listed in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, path, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			pairs, err := config.LoadBatch(fs, path)
			if err != nil {
				a.logger.Error("Failed to load batch file", zap.String("path", args[0]), zap.Error(err))
				return err
			}

			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}

			a.logger.Info("Running batch", zap.Int("pairs", len(pairs)), zap.Int("workers", workers))
			reports := oracle.RunBatch(oracle.New(a.options()), pairs, workers)

			if jsonOutput {
				if err := formatter.WriteJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReports(reports))
			}

			for _, r := range reports {
				if !r.Verdict.Pass() {
					return ErrNotEquivalent
				}
			}

			return nil
		},
	}

	batchCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of pairs checked concurrently")
	batchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output reports in JSON format")

	return batchCmd
}
