package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jvitoroc/selcheck/canon"
	"github.com/jvitoroc/selcheck/eval"
	"github.com/jvitoroc/selcheck/oracle"
	"github.com/jvitoroc/selcheck/probe"
	"github.com/jvitoroc/selcheck/selection"
)

const DefaultPath = ".selcheck.yaml"

type FlagThreshold struct {
	Enabled bool    `yaml:"enabled"`
	Value   float64 `yaml:"value"`
	Epsilon float64 `yaml:"epsilon"`
}

type Config struct {
	Tolerance        float64           `yaml:"tolerance"`
	MaxProbes        int               `yaml:"max_probes"`
	Epsilon          float64           `yaml:"epsilon"`
	InequalityOffset float64           `yaml:"inequality_offset"`
	InteriorProbes   bool              `yaml:"interior_probes"`
	FlagThreshold    FlagThreshold     `yaml:"flag_threshold"`
	Aliases          map[string]string `yaml:"aliases,omitempty"`
	// Builtins are extra words never treated as variables.
	Builtins []string `yaml:"builtins,omitempty"`
	Workers  int      `yaml:"workers"`
}

func Default() Config {
	return Config{
		Tolerance:        1e-8,
		MaxProbes:        10000,
		Epsilon:          1e-8,
		InequalityOffset: 0.1,
		InteriorProbes:   true,
		FlagThreshold: FlagThreshold{
			Enabled: true,
			Value:   0.5,
			Epsilon: 1e-8,
		},
		Workers: 4,
	}
}

// Load reads path from fs on top of the defaults. A missing file yields the
// defaults.
func Load(fs billy.Filesystem, path string) (Config, error) {
	cfg := Default()

	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func Save(fs billy.Filesystem, path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return util.WriteFile(fs, path, d, 0o644)
}

func (c Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance)
	}
	if c.InequalityOffset <= 0 {
		return fmt.Errorf("inequality_offset must be positive, got %g", c.InequalityOffset)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	return nil
}

// Deny is the word list never treated as variables: the evaluator builtins,
// the configured builtins and the alias words.
func (c Config) Deny() []string {
	deny := append(eval.Builtins(), c.Builtins...)
	for word := range c.Aliases {
		deny = append(deny, word)
	}

	return probe.Union(deny)
}

func (c Config) Options(logger *zap.Logger) oracle.Options {
	var rules []canon.Rule
	if c.FlagThreshold.Enabled {
		rules = append(rules, canon.FlagThreshold{Value: c.FlagThreshold.Value, Epsilon: c.FlagThreshold.Epsilon})
	}

	return oracle.Options{
		Parser:     selection.Config{Aliases: c.Aliases},
		Normalizer: canon.Config{Rules: rules},
		Probes: probe.Config{
			Epsilon:          c.Epsilon,
			InequalityOffset: c.InequalityOffset,
			InteriorProbes:   c.InteriorProbes,
			Deny:             c.Deny(),
		},
		Tolerance: c.Tolerance,
		MaxProbes: c.MaxProbes,
		Logger:    logger,
	}
}

type batchFile struct {
	Pairs []oracle.Pair `yaml:"pairs"`
}

// LoadBatch reads a list of named expression pairs.
func LoadBatch(fs billy.Filesystem, path string) ([]oracle.Pair, error) {
	d, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var b batchFile
	if err := yaml.Unmarshal(d, &b); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	for i, p := range b.Pairs {
		if p.A == "" || p.B == "" {
			return nil, fmt.Errorf("%s: pair %d is missing an expression", path, i+1)
		}
	}

	return b.Pairs, nil
}
