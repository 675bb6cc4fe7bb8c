package selection

import (
	"github.com/jvitoroc/selcheck/eval"
)

type parser struct {
	t *tokenizer
}

func NewParser(text string, cfg Config) *parser {
	return &parser{t: newTokenizer(text, cfg)}
}

// Parse parses text with the default configuration.
func Parse(text string) (*eval.Expression, error) {
	return NewParser(text, Config{}).Parse()
}

func (p *parser) Parse() (*eval.Expression, error) {
	tokens, err := p.t.tokenize()
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		return nil, newSyntaxError(p.t.line, p.t.column, "empty expression")
	}

	if err := checkParenthesesBalance(tokens); err != nil {
		return nil, err
	}

	return infixToExpressionTree(tokens, p.t.line, p.t.column)
}

func infixToExpressionTree(tokens []token, endLine, endColumn int) (*eval.Expression, error) {
	t, err := infixToPostfix(tokens, endLine, endColumn)
	if err != nil {
		return nil, err
	}

	return postfixToExpressionTree(t)
}

// infixToPostfix is a shunting-yard pass. It also validates the token order:
// expectOperand tracks whether the next token has to start an operand.
func infixToPostfix(tokens []token, endLine, endColumn int) ([]token, error) {
	ops := stack[token]{}
	argCounts := stack[int]{}
	postfix := make([]token, 0, len(tokens))

	expectOperand := true
	var previous token

	for i, tk := range tokens {
		switch {
		case tk._type == identifier && i+1 < len(tokens) && tokens[i+1].isLeftParenthesis():
			if !expectOperand {
				return nil, newSyntaxError(tk.line, tk.column, "expected operator after '%s'", previous.strValue)
			}
			tk._type = call
			ops.push(tk)
		case tk.isOperand():
			if !expectOperand {
				return nil, newSyntaxError(tk.line, tk.column, "expected operator after '%s'", previous.strValue)
			}
			postfix = append(postfix, tk)
			expectOperand = false
		case tk.isLeftParenthesis():
			if !expectOperand {
				return nil, newSyntaxError(tk.line, tk.column, "expected operator after '%s'", previous.strValue)
			}
			if previous._type == call {
				argCounts.push(0)
			}
			ops.push(tk)
		case tk._type == comma:
			if expectOperand {
				return nil, newSyntaxError(tk.line, tk.column, "expected operand before ','")
			}
			for len(ops) > 0 && ops.peek()._type != leftParenthesis {
				postfix = append(postfix, ops.pop())
			}
			if ops.peekAt(1)._type != call {
				return nil, newSyntaxError(tk.line, tk.column, "unexpected comma")
			}
			argCounts[len(argCounts)-1]++
			expectOperand = true
		case tk.isRightParenthesis():
			emptyCall := previous.isLeftParenthesis() && ops.peekAt(1)._type == call
			if expectOperand && !emptyCall {
				if previous.isLeftParenthesis() {
					return nil, newSyntaxError(tk.line, tk.column, "empty parentheses")
				}
				return nil, newSyntaxError(tk.line, tk.column, "expected operand before ')'")
			}
			for len(ops) > 0 && ops.peek()._type != leftParenthesis {
				postfix = append(postfix, ops.pop())
			}
			if len(ops) == 0 {
				return nil, newSyntaxError(tk.line, tk.column, "unexpected closing parenthesis")
			}
			ops.pop()
			if len(ops) > 0 && ops.peek()._type == call {
				c := ops.pop()
				c.argc = argCounts.pop()
				if !emptyCall {
					c.argc++
				}
				postfix = append(postfix, c)
			}
			expectOperand = false
		case tk.isOperator():
			if expectOperand {
				if !tk.toUnary() {
					return nil, newSyntaxError(tk.line, tk.column, "expected operand before '%s'", tk.strValue)
				}
				ops.push(tk)
				break
			}
			if tk._type == not {
				return nil, newSyntaxError(tk.line, tk.column, "unexpected '%s' after '%s'", tk.strValue, previous.strValue)
			}
			for len(ops) > 0 {
				top := ops.peek()
				if top.isOperator() && tk.hasLowerOrSamePrecedenceThan(top) {
					postfix = append(postfix, ops.pop())
					continue
				}
				break
			}
			ops.push(tk)
			expectOperand = true
		default:
			return nil, newSyntaxError(tk.line, tk.column, "token '%s' is invalid as part of an expression", tk.strValue)
		}

		previous = tk
	}

	if expectOperand {
		err := newSyntaxError(endLine, endColumn, "expected operand after '%s'", previous.strValue)
		err.incomplete = true
		return nil, err
	}

	for len(ops) > 0 {
		tk := ops.pop()
		if tk.isLeftParenthesis() {
			err := newSyntaxError(tk.line, tk.column, "opening parenthesis is missing its closing parenthesis")
			err.incomplete = true
			return nil, err
		}
		postfix = append(postfix, tk)
	}

	return postfix, nil
}

func postfixToExpressionTree(tokens []token) (*eval.Expression, error) {
	s := stack[*eval.Expression]{}

	for _, tk := range tokens {
		switch {
		case tk._type == numberLiteral:
			s.push(eval.Number(tk.value))
		case tk._type == identifier:
			s.push(eval.Ident(tk.strValue))
		case tk._type == parameter:
			s.push(&eval.Expression{Type: eval.Parameter, Index: tk.index})
		case tk._type == call:
			args := s.popN(tk.argc)
			if args == nil {
				return nil, newSyntaxError(tk.line, tk.column, "missing arguments for '%s'", tk.strValue)
			}
			s.push(&eval.Expression{Type: eval.Call, Identifier: tk.strValue, Args: args})
		case tk.isUnaryOperator():
			operand := s.pop()
			if operand == nil {
				return nil, newSyntaxError(tk.line, tk.column, "missing operand for '%s'", tk.strValue)
			}
			s.push(&eval.Expression{Type: eval.Unary, Operator: eval.OperatorType(tk._type), Left: operand})
		case tk.isBinaryOperator():
			if !eval.IsOperator(string(tk._type)) {
				return nil, newSyntaxError(tk.line, tk.column, "token '%s' is not a valid operator", tk.strValue)
			}
			right := s.pop()
			left := s.pop()
			if left == nil || right == nil {
				return nil, newSyntaxError(tk.line, tk.column, "missing operand for '%s'", tk.strValue)
			}
			s.push(eval.Binary(eval.OperatorType(tk._type), left, right))
		}
	}

	if len(s) != 1 {
		return nil, newSyntaxError(1, 1, "malformed expression")
	}

	return s.pop(), nil
}

func checkParenthesesBalance(tokens []token) error {
	unclosedParentheses := stack[token]{}
	for _, t := range tokens {
		if t.isLeftParenthesis() {
			unclosedParentheses.push(t)
		} else if t.isRightParenthesis() {
			tk := unclosedParentheses.pop()
			if tk == tokenNoop {
				return newSyntaxError(t.line, t.column, "unexpected closing parenthesis")
			}
		}
	}

	if len(unclosedParentheses) > 0 {
		tk := unclosedParentheses.pop()
		err := newSyntaxError(tk.line, tk.column, "opening parenthesis is missing its closing parenthesis")
		err.incomplete = true
		return err
	}

	return nil
}
