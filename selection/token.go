package selection

import (
	"slices"
	"strconv"
)

type token struct {
	_type    tokenType
	strValue string
	value    float64
	index    int
	argc     int

	line   int
	column int
}

var tokenNoop token

func (tk *token) isLeftParenthesis() bool {
	return tk._type == leftParenthesis
}

func (tk *token) isRightParenthesis() bool {
	return tk._type == rightParenthesis
}

var (
	binaryOperators = []tokenType{and, or, equal, notEqual, greaterEqual, greater, lessEqual, less, add, subtract, multiply, divide}
	unaryOperators  = []tokenType{not, negate, plus}
	operands        = []tokenType{identifier, numberLiteral, parameter}
)

// precedence: a larger number binds looser.
var precedence = map[tokenType]int{
	not:          1,
	negate:       1,
	plus:         1,
	multiply:     2,
	divide:       2,
	add:          3,
	subtract:     3,
	equal:        4,
	notEqual:     4,
	greaterEqual: 4,
	greater:      4,
	less:         4,
	lessEqual:    4,
	and:          5,
	or:           6,
}

func (tk *token) hasLowerOrSamePrecedenceThan(tk1 token) bool {
	l, lok := precedence[tk._type]
	r, rok := precedence[tk1._type]

	if !lok || !rok {
		return false
	}

	return l >= r
}

func (tk *token) isBinaryOperator() bool {
	return slices.Contains(binaryOperators, tk._type)
}

func (tk *token) isUnaryOperator() bool {
	return slices.Contains(unaryOperators, tk._type)
}

func (tk *token) isOperator() bool {
	return tk.isBinaryOperator() || tk.isUnaryOperator()
}

func (tk *token) isOperand() bool {
	return slices.Contains(operands, tk._type)
}

// toUnary turns a '+' or '-' found where an operand is expected into its
// prefix form.
func (tk *token) toUnary() bool {
	switch tk._type {
	case add:
		tk._type = plus
	case subtract:
		tk._type = negate
	case not:
	default:
		return false
	}

	return true
}

func (tk *token) convertToGoType() (err error) {
	switch tk._type {
	case numberLiteral:
		tk.value, err = strconv.ParseFloat(tk.strValue, 64)
	case parameter:
		tk.index, err = strconv.Atoi(tk.strValue[1 : len(tk.strValue)-1])
	}

	return
}
