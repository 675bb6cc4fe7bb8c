package oracle

import (
	"github.com/jvitoroc/selcheck/eval"
	"github.com/jvitoroc/selcheck/selection"
)

// Evaluator computes a transformed expression, whose variables are [i]
// placeholders, for one ordered list of parameter values.
type Evaluator interface {
	Evaluate(expression string, params []float64) (float64, error)
}

// Prepared is an expression compiled once and run for many parameter lists.
type Prepared interface {
	Run(params []float64) (float64, error)
}

// Preparer is implemented by evaluators that can compile ahead of the probe
// loop.
type Preparer interface {
	Prepare(expression string) (Prepared, error)
}

// StackEvaluator parses expressions with the selection grammar and runs them
// on the eval stack machine.
type StackEvaluator struct {
	Parser selection.Config
}

func (s StackEvaluator) Prepare(expression string) (Prepared, error) {
	cfg := s.Parser
	cfg.Placeholders = true

	expr, err := selection.NewParser(expression, cfg).Parse()
	if err != nil {
		return nil, err
	}

	p, err := eval.Compile(expr)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (s StackEvaluator) Evaluate(expression string, params []float64) (float64, error) {
	p, err := s.Prepare(expression)
	if err != nil {
		return 0, err
	}

	return p.Run(params)
}

type evaluatorFunc func(params []float64) (float64, error)

func (f evaluatorFunc) Run(params []float64) (float64, error) {
	return f(params)
}

func prepare(e Evaluator, expression string) (Prepared, error) {
	if p, ok := e.(Preparer); ok {
		return p.Prepare(expression)
	}

	return evaluatorFunc(func(params []float64) (float64, error) {
		return e.Evaluate(expression, params)
	}), nil
}
