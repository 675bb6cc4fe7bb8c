package eval

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

type OperatorType string
type ExpressionType string

const (
	And              OperatorType = "and"
	Or               OperatorType = "or"
	Equal            OperatorType = "equal"
	NotEqual         OperatorType = "not_equal"
	GreaterEqualThan OperatorType = "greater_equal"
	GreaterThan      OperatorType = "greater"
	LessEqualThan    OperatorType = "less_equal"
	LessThan         OperatorType = "less"
	Add              OperatorType = "add"
	Subtract         OperatorType = "subtract"
	Multiply         OperatorType = "multiply"
	Divide           OperatorType = "divide"
	Not              OperatorType = "not"
	Negate           OperatorType = "negate"
	Plus             OperatorType = "plus"
)

var (
	binaryOperators     = []OperatorType{And, Or, Equal, NotEqual, GreaterEqualThan, GreaterThan, LessEqualThan, LessThan, Add, Subtract, Multiply, Divide}
	unaryOperators      = []OperatorType{Not, Negate, Plus}
	comparisonOperators = []OperatorType{Equal, NotEqual, GreaterEqualThan, GreaterThan, LessEqualThan, LessThan}
)

func IsOperator(operator string) bool {
	return slices.Contains(binaryOperators, OperatorType(operator)) || slices.Contains(unaryOperators, OperatorType(operator))
}

func IsUnaryOperator(operator string) bool {
	return slices.Contains(unaryOperators, OperatorType(operator))
}

func (o OperatorType) IsComparison() bool {
	return slices.Contains(comparisonOperators, o)
}

func (o OperatorType) IsLogical() bool {
	return o == And || o == Or
}

const (
	Operator  ExpressionType = "operator"
	Unary     ExpressionType = "unary"
	Operand   ExpressionType = "operand"
	Parameter ExpressionType = "parameter"
	Call      ExpressionType = "call"
	Chain     ExpressionType = "chain"
)

// Expression is a node of a selection tree.
//
// Operands with an empty Identifier are number literals. Unary nodes keep
// their operand in Left. Chain nodes only come out of normalization and hold
// the operands of an n-ary and/or, in no particular order.
type Expression struct {
	Type     ExpressionType
	Operator OperatorType

	Identifier string
	Value      float64
	Index      int

	Left  *Expression
	Right *Expression

	Args     []*Expression
	Operands []*Expression
}

func Number(v float64) *Expression {
	return &Expression{Type: Operand, Value: v}
}

func Ident(name string) *Expression {
	return &Expression{Type: Operand, Identifier: name}
}

func Binary(op OperatorType, left, right *Expression) *Expression {
	return &Expression{Type: Operator, Operator: op, Left: left, Right: right}
}

func (expr *Expression) IsLiteral() bool {
	return expr != nil && expr.Type == Operand && expr.Identifier == ""
}

func (expr *Expression) IsIdentifier() bool {
	return expr != nil && expr.Type == Operand && expr.Identifier != ""
}

var symbols = map[OperatorType]string{
	And:              "&&",
	Or:               "||",
	Equal:            "==",
	NotEqual:         "!=",
	GreaterEqualThan: ">=",
	GreaterThan:      ">",
	LessEqualThan:    "<=",
	LessThan:         "<",
	Add:              "+",
	Subtract:         "-",
	Multiply:         "*",
	Divide:           "/",
	Not:              "!",
	Negate:           "-",
	Plus:             "+",
}

func Symbol(op OperatorType) string {
	if s, ok := symbols[op]; ok {
		return s
	}

	return string(op)
}

func FormatNumber(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// String renders the tree fully parenthesized. Chain operands are sorted by
// their rendering so the output is stable for display.
func (expr *Expression) String() string {
	if expr == nil {
		return "<nil>"
	}

	switch expr.Type {
	case Operand:
		if expr.Identifier != "" {
			return expr.Identifier
		}
		return FormatNumber(expr.Value)
	case Parameter:
		return "[" + strconv.Itoa(expr.Index) + "]"
	case Unary:
		return Symbol(expr.Operator) + expr.Left.String()
	case Operator:
		return "(" + expr.Left.String() + " " + Symbol(expr.Operator) + " " + expr.Right.String() + ")"
	case Call:
		args := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = a.String()
		}
		return expr.Identifier + "(" + strings.Join(args, ", ") + ")"
	case Chain:
		ops := make([]string, len(expr.Operands))
		for i, o := range expr.Operands {
			ops[i] = o.String()
		}
		sort.Strings(ops)
		return "(" + strings.Join(ops, " "+Symbol(expr.Operator)+" ") + ")"
	}

	return string(expr.Type)
}

// Identifiers returns the sorted, distinct identifier leaves of the tree.
// Call names are not leaves.
func Identifiers(expr *Expression) []string {
	seen := map[string]bool{}
	walk(expr, func(e *Expression) {
		if e.IsIdentifier() {
			seen[e.Identifier] = true
		}
	})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

func walk(expr *Expression, fn func(*Expression)) {
	if expr == nil {
		return
	}

	fn(expr)
	walk(expr.Left, fn)
	walk(expr.Right, fn)
	for _, a := range expr.Args {
		walk(a, fn)
	}
	for _, o := range expr.Operands {
		walk(o, fn)
	}
}
