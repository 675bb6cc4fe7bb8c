package canon

import (
	"math"

	"github.com/jvitoroc/selcheck/eval"
)

// Equal reports whether two normalized trees are structurally the same.
// Chain operands are compared as multisets.
func Equal(a, b *eval.Expression) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Type != b.Type || a.Operator != b.Operator || a.Identifier != b.Identifier {
		return false
	}

	switch a.Type {
	case eval.Operand:
		return sameValue(a.Value, b.Value)
	case eval.Parameter:
		return a.Index == b.Index
	case eval.Unary:
		return Equal(a.Left, b.Left)
	case eval.Operator:
		return Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case eval.Call:
		return equalOrdered(a.Args, b.Args)
	case eval.Chain:
		return equalUnordered(a.Operands, b.Operands)
	}

	return sameValue(a.Value, b.Value) &&
		a.Index == b.Index &&
		Equal(a.Left, b.Left) &&
		Equal(a.Right, b.Right) &&
		equalOrdered(a.Args, b.Args) &&
		equalUnordered(a.Operands, b.Operands)
}

func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func equalOrdered(a, b []*eval.Expression) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// equalUnordered pairs every operand of a with a distinct equal operand of b.
// Equal is an equivalence relation, so taking the first free match is enough.
func equalUnordered(a, b []*eval.Expression) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && Equal(x, y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
