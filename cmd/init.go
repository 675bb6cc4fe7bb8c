package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jvitoroc/selcheck/config"
)

const initCmdName = "init"

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   initCmdName,
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, path, err := a.resolve(a.cfgFile)
			if err != nil {
				return err
			}

			if err := config.Save(fs, path, config.Default()); err != nil {
				a.logger.Error("Error initializing config file", zap.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", a.cfgFile)

			return nil
		},
	}
}
