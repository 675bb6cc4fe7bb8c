package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jvitoroc/selcheck/config"
	"github.com/jvitoroc/selcheck/oracle"
)

// ErrNotEquivalent is returned by commands whose pairs did not pass. The
// report has already been printed.
var ErrNotEquivalent = errors.New("expressions are not equivalent")

type app struct {
	// fs is used for every path when set; otherwise paths are opened on the
	// OS filesystem.
	fs  billy.Filesystem
	out io.Writer

	cfgFile string
	verbose bool

	logger *zap.Logger
	cfg    config.Config
}

func (a *app) resolve(path string) (billy.Filesystem, string, error) {
	if a.fs != nil {
		return a.fs, path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}

	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}

func (a *app) options() oracle.Options {
	return a.cfg.Options(a.logger)
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.logger == nil {
		var err error
		if a.verbose {
			a.logger, err = zap.NewDevelopment()
		} else {
			a.logger, err = zap.NewProduction()
		}
		if err != nil {
			return err
		}
	}

	a.cfg = config.Default()
	if cmd.Name() == initCmdName {
		return nil
	}

	fs, path, err := a.resolve(a.cfgFile)
	if err != nil {
		return err
	}

	a.cfg, err = config.Load(fs, path)
	if err != nil {
		a.logger.Error("Failed to load configuration", zap.String("path", a.cfgFile), zap.Error(err))
		return err
	}

	a.logger.Debug("Configuration loaded", zap.String("path", a.cfgFile), zap.Any("config", a.cfg))

	return nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "selcheck",
		Short:         "selcheck - compare two selection expressions for equivalence",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.SetOut(a.out)
	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newProbesCmd(a))
	rootCmd.AddCommand(newInitCmd(a))
	rootCmd.AddCommand(newReplCmd(a))

	return rootCmd
}

func Execute() error {
	return newRootCmd(&app{out: os.Stdout}).Execute()
}
