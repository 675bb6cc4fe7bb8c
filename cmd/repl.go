package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jvitoroc/selcheck/formatter"
	"github.com/jvitoroc/selcheck/oracle"
	"github.com/jvitoroc/selcheck/selection"
)

const (
	historyFile = ".selcheck_history"
	promptCont  = "..> "
)

var errQuit = errors.New("quit")

type prompter interface {
	Prompt(prompt string) (string, error)
}

type historian interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

func (a *app) historyPath() (string, error) {
	if a.fs != nil {
		return historyFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, historyFile), nil
}

// loadHistory returns a nil filesystem when the history file cannot be
// located; nothing is saved then.
func (a *app) loadHistory(h historian) (billy.Filesystem, string) {
	path, err := a.historyPath()
	if err != nil {
		a.logger.Warn("History disabled", zap.Error(err))
		return nil, ""
	}

	fs, name, err := a.resolve(path)
	if err != nil {
		a.logger.Warn("History disabled", zap.String("path", path), zap.Error(err))
		return nil, ""
	}

	f, err := fs.Open(name)
	if err == nil {
		_, err = h.ReadHistory(f)
		_ = f.Close()
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("Failed to read history", zap.String("path", path), zap.Error(err))
	}

	return fs, name
}

func (a *app) saveHistory(h historian, fs billy.Filesystem, name string) {
	if fs == nil {
		return
	}

	f, err := fs.Create(name)
	if err == nil {
		_, err = h.WriteHistory(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		a.logger.Warn("Failed to write history", zap.String("path", name), zap.Error(err))
	}
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compare expressions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			fs, name := a.loadHistory(ln)
			defer a.saveHistory(ln, fs, name)

			fmt.Fprintln(cmd.OutOrStdout(), "Enter two expressions to compare. Type :quit to exit.")

			err := repl(ln, cmd.OutOrStdout(), oracle.New(a.options()), a.options().Parser, ln.AppendHistory)
			if errors.Is(err, errQuit) {
				return nil
			}

			return err
		},
	}
}

// repl reads pairs until input ends or :quit is entered.
func repl(p prompter, out io.Writer, o *oracle.Oracle, cfg selection.Config, history func(string)) error {
	for {
		a, err := readExpression(p, "A> ", cfg)
		if err != nil {
			return err
		}
		if a == "" {
			continue
		}

		b, err := readExpression(p, "B> ", cfg)
		if err != nil {
			return err
		}
		if b == "" {
			continue
		}

		history(strings.ReplaceAll(a, "\n", " "))
		history(strings.ReplaceAll(b, "\n", " "))

		fmt.Fprintln(out, formatter.FormatVerdict(a, b, o.Check(a, b)))
	}
}

// readExpression keeps prompting while the text so far only lacks more
// input, such as an unclosed parenthesis.
func readExpression(p prompter, prompt string, cfg selection.Config) (string, error) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = promptCont
		}

		line, err := p.Prompt(current)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", errQuit
		}
		if err != nil {
			return "", err
		}

		if b.Len() == 0 {
			switch strings.TrimSpace(line) {
			case ":quit", ":q":
				return "", errQuit
			case "":
				return "", nil
			}
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, err := selection.NewParser(src, cfg).Parse(); selection.IsIncomplete(err) {
			continue
		}

		return src, nil
	}
}
