package oracle

import (
	"fmt"

	"github.com/jvitoroc/selcheck/probe"
)

// EvaluatorError means the evaluator rejected one side. Vector is nil when
// the expression could not even be prepared.
type EvaluatorError struct {
	Side       string
	Expression string
	Vector     *probe.Vector
	Err        error
}

func (e *EvaluatorError) Error() string {
	if e.Vector == nil {
		return fmt.Sprintf("evaluator rejected side %s '%s': %v", e.Side, e.Expression, e.Err)
	}

	return fmt.Sprintf("evaluator failed on side %s '%s' at {%s}: %v", e.Side, e.Expression, e.Vector, e.Err)
}

func (e *EvaluatorError) Unwrap() error {
	return e.Err
}

// UnboundVariableWarning is a word the variable scan found in a side that is
// not an identifier of its parsed tree.
type UnboundVariableWarning struct {
	Side string
	Name string
}

func (w UnboundVariableWarning) String() string {
	return fmt.Sprintf("'%s' on side %s is not a variable of the parsed expression", w.Name, w.Side)
}
