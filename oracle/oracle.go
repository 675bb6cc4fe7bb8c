package oracle

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/jvitoroc/selcheck/canon"
	"github.com/jvitoroc/selcheck/eval"
	"github.com/jvitoroc/selcheck/probe"
	"github.com/jvitoroc/selcheck/selection"
)

const (
	SideA = "A"
	SideB = "B"
)

type Options struct {
	Parser     selection.Config
	Normalizer canon.Config
	Probes     probe.Config

	Tolerance float64
	// MaxProbes bounds the number of probe vectors; zero or less disables
	// the bound.
	MaxProbes    int
	SkipSemantic bool

	// Evaluator defaults to a StackEvaluator using Parser.
	Evaluator Evaluator
	Logger    *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Normalizer: canon.DefaultConfig(),
		Probes:     probe.DefaultConfig(eval.Builtins()),
		Tolerance:  1e-8,
		MaxProbes:  10000,
	}
}

// Oracle decides whether two selection expressions are interchangeable.
// It holds configuration only and can be shared between goroutines.
type Oracle struct {
	opts       Options
	normalizer *canon.Normalizer
	evaluator  Evaluator
	logger     *zap.Logger
}

func New(opts Options) *Oracle {
	words := make([]string, 0, len(opts.Parser.Aliases))
	for w := range opts.Parser.Aliases {
		words = append(words, w)
	}
	opts.Probes.Deny = probe.Union(opts.Probes.Deny, words)

	o := &Oracle{
		opts:       opts,
		normalizer: canon.NewNormalizer(opts.Normalizer),
		evaluator:  opts.Evaluator,
		logger:     opts.Logger,
	}

	if o.evaluator == nil {
		o.evaluator = StackEvaluator{Parser: opts.Parser}
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return o
}

// Counterexample is a probe where both sides disagree.
type Counterexample struct {
	Vector  probe.Vector
	ResultA float64
	ResultB float64
}

type Verdict struct {
	Structural      bool
	Semantic        bool
	SemanticSkipped bool
	Counterexample  *Counterexample

	CanonicalA string
	CanonicalB string

	// ErrA and ErrB hold the syntax errors of each side.
	ErrA        error
	ErrB        error
	SemanticErr error

	Warnings []UnboundVariableWarning
	Probes   int
}

// Pass requires both checks, or only the structural one when the semantic
// check was skipped.
func (v *Verdict) Pass() bool {
	if v.SemanticSkipped {
		return v.Structural
	}

	return v.Structural && v.Semantic
}

// Canonical parses and normalizes text.
func (o *Oracle) Canonical(text string) (*eval.Expression, error) {
	expr, err := selection.NewParser(text, o.opts.Parser).Parse()
	if err != nil {
		return nil, err
	}

	return o.normalizer.Normalize(expr), nil
}

// StructuralEqual reports whether a and b share the same canonical tree.
func (o *Oracle) StructuralEqual(a, b string) (bool, error) {
	ca, err := o.Canonical(a)
	if err != nil {
		return false, err
	}

	cb, err := o.Canonical(b)
	if err != nil {
		return false, err
	}

	return canon.Equal(ca, cb), nil
}

func (o *Oracle) unbound(side, text string, expr *eval.Expression) []UnboundVariableWarning {
	leaves := map[string]bool{}
	for _, n := range eval.Identifiers(expr) {
		leaves[n] = true
	}

	var warnings []UnboundVariableWarning
	for _, n := range probe.Variables(text, o.opts.Probes.Deny) {
		if leaves[n] || eval.IsBuiltin(n) {
			continue
		}
		w := UnboundVariableWarning{Side: side, Name: n}
		o.logger.Warn("Unbound variable", zap.String("side", side), zap.String("name", n), zap.String("expression", text))
		warnings = append(warnings, w)
	}

	return warnings
}

func (o *Oracle) Check(a, b string) *Verdict {
	v := &Verdict{}

	ca, errA := o.Canonical(a)
	cb, errB := o.Canonical(b)
	v.ErrA, v.ErrB = errA, errB

	if errA != nil {
		o.logger.Error("Syntax error", zap.String("side", SideA), zap.String("expression", a), zap.Error(errA))
	} else {
		v.CanonicalA = ca.String()
		v.Warnings = append(v.Warnings, o.unbound(SideA, a, ca)...)
	}

	if errB != nil {
		o.logger.Error("Syntax error", zap.String("side", SideB), zap.String("expression", b), zap.Error(errB))
	} else {
		v.CanonicalB = cb.String()
		v.Warnings = append(v.Warnings, o.unbound(SideB, b, cb)...)
	}

	if errA == nil && errB == nil {
		v.Structural = canon.Equal(ca, cb)
	}

	o.logger.Debug("Structural check",
		zap.String("canonical_a", v.CanonicalA),
		zap.String("canonical_b", v.CanonicalB),
		zap.Bool("equal", v.Structural),
	)

	if o.opts.SkipSemantic {
		v.SemanticSkipped = true
		return v
	}

	res, err := o.SemanticEqual(a, b)
	v.Probes = res.Probes
	v.Counterexample = res.Counterexample
	v.SemanticErr = err
	v.Semantic = err == nil && res.Equal

	return v
}

type SemanticResult struct {
	Equal          bool
	Probes         int
	Variables      []string
	Counterexample *Counterexample
}

func agree(x, y, tolerance float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}

	if x == y {
		return true
	}

	return math.Abs(x-y) <= tolerance
}

// SemanticEqual evaluates both sides on every probe vector built from the
// literal comparisons of a and b. The first vector where the results differ
// by more than the tolerance becomes the counterexample. The result is never
// nil; the error is a *EvaluatorError or a *probe.LimitError.
func (o *Oracle) SemanticEqual(a, b string) (*SemanticResult, error) {
	res := &SemanticResult{}

	for _, side := range []struct{ name, text string }{{SideA, a}, {SideB, b}} {
		if _, err := selection.NewParser(side.text, o.opts.Parser).Parse(); err != nil {
			return res, &EvaluatorError{Side: side.name, Expression: side.text, Err: err}
		}
	}

	deny := o.opts.Probes.Deny
	vars := probe.Union(probe.Variables(a, deny), probe.Variables(b, deny))
	res.Variables = vars

	set := probe.Candidates(a, b, o.opts.Probes)

	ta := probe.Parametrize(a, vars)
	tb := probe.Parametrize(b, vars)

	pa, err := prepare(o.evaluator, ta)
	if err != nil {
		return res, &EvaluatorError{Side: SideA, Expression: ta, Err: err}
	}

	pb, err := prepare(o.evaluator, tb)
	if err != nil {
		return res, &EvaluatorError{Side: SideB, Expression: tb, Err: err}
	}

	err = probe.Enumerate(vars, set, o.opts.MaxProbes, func(v probe.Vector) error {
		ra, err := pa.Run(v.Values)
		if err != nil {
			return &EvaluatorError{Side: SideA, Expression: ta, Vector: &v, Err: err}
		}

		rb, err := pb.Run(v.Values)
		if err != nil {
			return &EvaluatorError{Side: SideB, Expression: tb, Vector: &v, Err: err}
		}

		res.Probes++

		if !agree(ra, rb, o.opts.Tolerance) {
			res.Counterexample = &Counterexample{Vector: v, ResultA: ra, ResultB: rb}
			return probe.Stop
		}

		return nil
	})
	if err != nil {
		var le *probe.LimitError
		if errors.As(err, &le) {
			o.logger.Warn("Probe limit exceeded", zap.Int("count", le.Count), zap.Int("limit", le.Limit))
		}
		return res, err
	}

	res.Equal = res.Counterexample == nil

	if res.Counterexample != nil {
		o.logger.Info("Semantic mismatch",
			zap.String("probe", res.Counterexample.Vector.String()),
			zap.Float64("result_a", res.Counterexample.ResultA),
			zap.Float64("result_b", res.Counterexample.ResultB),
		)
	}

	return res, nil
}
