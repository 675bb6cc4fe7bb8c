package canon

import (
	"math"

	"github.com/jvitoroc/selcheck/eval"
)

// Rule rewrites a single node. Rules run bottom-up, after the children of
// the node have been normalized and after the literal of a comparison has
// been moved to the right-hand side. A rule returns its input unchanged when
// it does not apply.
type Rule interface {
	Rewrite(expr *eval.Expression) *eval.Expression
}

// FlagThreshold rewrites "X > c" into "X == 1" and "X < c" into "X == 0"
// when c is within Epsilon of Value. It models 0/1 flags cut at 0.5.
type FlagThreshold struct {
	Value   float64
	Epsilon float64
}

func (f FlagThreshold) Rewrite(expr *eval.Expression) *eval.Expression {
	if expr.Type != eval.Operator || !expr.Right.IsLiteral() || expr.Left.IsLiteral() {
		return expr
	}

	if math.Abs(expr.Right.Value-f.Value) >= f.Epsilon {
		return expr
	}

	switch expr.Operator {
	case eval.GreaterThan:
		return eval.Binary(eval.Equal, expr.Left, eval.Number(1))
	case eval.LessThan:
		return eval.Binary(eval.Equal, expr.Left, eval.Number(0))
	}

	return expr
}

type Config struct {
	Rules []Rule
}

func DefaultConfig() Config {
	return Config{Rules: []Rule{FlagThreshold{Value: 0.5, Epsilon: 1e-8}}}
}

type Normalizer struct {
	rules []Rule
}

func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{rules: cfg.Rules}
}

var mirrored = map[eval.OperatorType]eval.OperatorType{
	eval.GreaterThan:      eval.LessThan,
	eval.LessThan:         eval.GreaterThan,
	eval.GreaterEqualThan: eval.LessEqualThan,
	eval.LessEqualThan:    eval.GreaterEqualThan,
	eval.Equal:            eval.Equal,
	eval.NotEqual:         eval.NotEqual,
}

// Normalize returns the canonical form of expr. The input is not modified.
func (n *Normalizer) Normalize(expr *eval.Expression) *eval.Expression {
	if expr == nil {
		return nil
	}

	var out *eval.Expression

	switch expr.Type {
	case eval.Operand, eval.Parameter:
		c := *expr
		out = &c
	case eval.Unary:
		out = foldLiteral(&eval.Expression{
			Type:     eval.Unary,
			Operator: expr.Operator,
			Left:     n.Normalize(expr.Left),
		})
	case eval.Call:
		args := make([]*eval.Expression, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = n.Normalize(a)
		}
		out = &eval.Expression{Type: eval.Call, Identifier: expr.Identifier, Args: args}
	case eval.Operator:
		out = orderOperands(eval.Binary(expr.Operator, n.Normalize(expr.Left), n.Normalize(expr.Right)))
	case eval.Chain:
		ops := make([]*eval.Expression, len(expr.Operands))
		for i, o := range expr.Operands {
			ops[i] = n.Normalize(o)
		}
		out = &eval.Expression{Type: eval.Chain, Operator: expr.Operator, Operands: ops}
	default:
		// unknown node kinds pass through
		return expr
	}

	for _, r := range n.rules {
		out = r.Rewrite(out)
	}

	return flatten(out)
}

func foldLiteral(expr *eval.Expression) *eval.Expression {
	if !expr.Left.IsLiteral() {
		return expr
	}

	switch expr.Operator {
	case eval.Negate:
		return eval.Number(-expr.Left.Value)
	case eval.Plus:
		return eval.Number(expr.Left.Value)
	}

	return expr
}

func orderOperands(expr *eval.Expression) *eval.Expression {
	if !expr.Operator.IsComparison() {
		return expr
	}

	if expr.Left.IsLiteral() && !expr.Right.IsLiteral() {
		return eval.Binary(mirrored[expr.Operator], expr.Right, expr.Left)
	}

	return expr
}

// flatten merges nested and/and or or/or nodes into one chain. Operands are
// already normalized, so a nested chain is at most one level deep.
func flatten(expr *eval.Expression) *eval.Expression {
	if !expr.Operator.IsLogical() || (expr.Type != eval.Operator && expr.Type != eval.Chain) {
		return expr
	}

	var in []*eval.Expression
	if expr.Type == eval.Operator {
		in = []*eval.Expression{expr.Left, expr.Right}
	} else {
		in = expr.Operands
	}

	ops := make([]*eval.Expression, 0, len(in))
	for _, o := range in {
		if o.Type == eval.Chain && o.Operator == expr.Operator {
			ops = append(ops, o.Operands...)
			continue
		}
		ops = append(ops, o)
	}

	if len(ops) == 1 {
		return ops[0]
	}

	return &eval.Expression{Type: eval.Chain, Operator: expr.Operator, Operands: ops}
}
