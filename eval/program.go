package eval

import (
	"errors"
	"fmt"
)

type opcode int

const (
	pushConst opcode = iota
	pushParam
	applyUnary
	applyBinary
	applyCall
)

type instruction struct {
	code  opcode
	value float64
	index int
	name  string
	op    OperatorType
	argc  int
}

// Program is an expression flattened into postfix order, evaluated on a
// value stack. Free identifiers are not allowed: variables must have been
// replaced by [n] parameters before compiling.
type Program struct {
	code   []instruction
	params int
}

func Compile(expr *Expression) (*Program, error) {
	if expr == nil {
		return nil, errors.New("no expression given")
	}

	p := &Program{}
	if err := p.emit(expr); err != nil {
		return nil, err
	}

	return p, nil
}

// Params is the number of positional parameters the program reads.
func (p *Program) Params() int {
	return p.params
}

func (p *Program) emit(expr *Expression) error {
	switch expr.Type {
	case Operand:
		if expr.Identifier != "" {
			return fmt.Errorf("unbound identifier '%s'", expr.Identifier)
		}
		p.code = append(p.code, instruction{code: pushConst, value: expr.Value})
	case Parameter:
		if expr.Index < 0 {
			return fmt.Errorf("invalid parameter index %d", expr.Index)
		}
		if expr.Index+1 > p.params {
			p.params = expr.Index + 1
		}
		p.code = append(p.code, instruction{code: pushParam, index: expr.Index})
	case Unary:
		if !IsUnaryOperator(string(expr.Operator)) {
			return fmt.Errorf("unknown unary operator '%s'", expr.Operator)
		}
		if err := p.emit(expr.Left); err != nil {
			return err
		}
		p.code = append(p.code, instruction{code: applyUnary, op: expr.Operator})
	case Operator:
		if !IsOperator(string(expr.Operator)) || IsUnaryOperator(string(expr.Operator)) {
			return fmt.Errorf("unknown binary operator '%s'", expr.Operator)
		}
		if err := p.emit(expr.Left); err != nil {
			return err
		}
		if err := p.emit(expr.Right); err != nil {
			return err
		}
		p.code = append(p.code, instruction{code: applyBinary, op: expr.Operator})
	case Chain:
		if len(expr.Operands) == 0 {
			return fmt.Errorf("empty '%s' chain", expr.Operator)
		}
		for i, o := range expr.Operands {
			if err := p.emit(o); err != nil {
				return err
			}
			if i > 0 {
				p.code = append(p.code, instruction{code: applyBinary, op: expr.Operator})
			}
		}
	case Call:
		if err := checkArity(expr.Identifier, len(expr.Args)); err != nil {
			return err
		}
		for _, a := range expr.Args {
			if err := p.emit(a); err != nil {
				return err
			}
		}
		p.code = append(p.code, instruction{code: applyCall, name: expr.Identifier, argc: len(expr.Args)})
	default:
		return fmt.Errorf("unknown expression type '%s'", expr.Type)
	}

	return nil
}

func (p *Program) Run(params []float64) (float64, error) {
	if len(params) < p.params {
		return 0, fmt.Errorf("expression reads %d parameters, but %d were given", p.params, len(params))
	}

	s := make(stack, 0, len(p.code))

	for _, in := range p.code {
		switch in.code {
		case pushConst:
			s.push(in.value)
		case pushParam:
			s.push(params[in.index])
		case applyUnary:
			v, err := s.pop()
			if err != nil {
				return 0, err
			}
			r, err := evaluateUnary(in.op, v)
			if err != nil {
				return 0, err
			}
			s.push(r)
		case applyBinary:
			r, err := s.pop()
			if err != nil {
				return 0, err
			}
			l, err := s.pop()
			if err != nil {
				return 0, err
			}
			v, err := evaluateBinary(in.op, l, r)
			if err != nil {
				return 0, err
			}
			s.push(v)
		case applyCall:
			args := make([]float64, in.argc)
			for i := in.argc - 1; i >= 0; i-- {
				v, err := s.pop()
				if err != nil {
					return 0, err
				}
				args[i] = v
			}
			s.push(builtins[in.name].fn(args))
		}
	}

	if len(s) != 1 {
		return 0, fmt.Errorf("malformed program, %d values left on the stack", len(s))
	}

	return s[0], nil
}

// Evaluate compiles expr and runs it once.
func Evaluate(expr *Expression, params []float64) (float64, error) {
	p, err := Compile(expr)
	if err != nil {
		return 0, err
	}

	return p.Run(params)
}

type stack []float64

func (s *stack) push(v float64) {
	*s = append(*s, v)
}

func (s *stack) pop() (float64, error) {
	l := len(*s)
	if l == 0 {
		return 0, errors.New("stack underflow")
	}

	v := (*s)[l-1]
	*s = (*s)[:l-1]

	return v, nil
}
