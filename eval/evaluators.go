package eval

import (
	"fmt"
	"math"
	"sort"
)

func truth(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

func isTrue(v float64) bool {
	return v != 0
}

func evaluateBinary(op OperatorType, l, r float64) (float64, error) {
	switch op {
	case And:
		return truth(isTrue(l) && isTrue(r)), nil
	case Or:
		return truth(isTrue(l) || isTrue(r)), nil
	case Equal:
		return truth(l == r), nil
	case NotEqual:
		return truth(l != r), nil
	case GreaterThan:
		return truth(l > r), nil
	case GreaterEqualThan:
		return truth(l >= r), nil
	case LessThan:
		return truth(l < r), nil
	case LessEqualThan:
		return truth(l <= r), nil
	case Add:
		return l + r, nil
	case Subtract:
		return l - r, nil
	case Multiply:
		return l * r, nil
	case Divide:
		return l / r, nil
	}

	return 0, fmt.Errorf("unknown binary operator '%s'", op)
}

func evaluateUnary(op OperatorType, v float64) (float64, error) {
	switch op {
	case Not:
		return truth(!isTrue(v)), nil
	case Negate:
		return -v, nil
	case Plus:
		return v, nil
	}

	return 0, fmt.Errorf("unknown unary operator '%s'", op)
}

type builtin struct {
	arity int // -1 means one or more
	fn    func(args []float64) float64
}

func unary(f func(float64) float64) builtin {
	return builtin{arity: 1, fn: func(a []float64) float64 { return f(a[0]) }}
}

func binary(f func(float64, float64) float64) builtin {
	return builtin{arity: 2, fn: func(a []float64) float64 { return f(a[0], a[1]) }}
}

var builtins = map[string]builtin{
	"abs":   unary(math.Abs),
	"sqrt":  unary(math.Sqrt),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"log10": unary(math.Log10),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"pow":   binary(math.Pow),
	"atan2": binary(math.Atan2),
	"hypot": binary(math.Hypot),
	"min": {arity: -1, fn: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {arity: -1, fn: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

// Builtins returns the names of the functions the evaluator understands.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

func checkArity(name string, argc int) error {
	b, ok := builtins[name]
	if !ok {
		return fmt.Errorf("unknown function '%s'", name)
	}

	if b.arity == -1 && argc == 0 {
		return fmt.Errorf("function '%s' expects at least 1 argument", name)
	}

	if b.arity >= 0 && b.arity != argc {
		return fmt.Errorf("function '%s' expects %d arguments, but got %d", name, b.arity, argc)
	}

	return nil
}
