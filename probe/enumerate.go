package probe

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jvitoroc/selcheck/eval"
)

// Stop can be returned by an Enumerate callback to end the enumeration
// early without an error.
var Stop = errors.New("stop enumeration")

// Vector is one assignment of values to variables.
type Vector struct {
	Names  []string
	Values []float64
}

func (v Vector) String() string {
	parts := make([]string, len(v.Names))
	for i, n := range v.Names {
		parts[i] = n + "=" + eval.FormatNumber(v.Values[i])
	}

	return strings.Join(parts, ", ")
}

func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		m[n] = v.Values[i]
	}

	return m
}

// LimitError is returned when the probe product is larger than allowed.
type LimitError struct {
	Count int
	Limit int
}

func (e *LimitError) Error() string {
	if e.Count == math.MaxInt {
		return fmt.Sprintf("probe count overflows, limit is %d", e.Limit)
	}

	return fmt.Sprintf("%d probe vectors exceed the limit of %d", e.Count, e.Limit)
}

func valuesOf(set Set, name string) []float64 {
	if vs := set[name]; len(vs) > 0 {
		return vs
	}

	return []float64{0}
}

// Count is the size of the Cartesian product of the values of vars. It
// saturates at math.MaxInt.
func Count(vars []string, set Set) int {
	total := 1
	for _, name := range vars {
		n := len(valuesOf(set, name))
		if total > math.MaxInt/n {
			return math.MaxInt
		}
		total *= n
	}

	return total
}

// Enumerate calls fn with every vector of the product of the values of vars,
// varying the last variable fastest. Nothing is enumerated when the product
// is larger than limit; a limit of zero or less means no limit.
func Enumerate(vars []string, set Set, limit int, fn func(Vector) error) error {
	count := Count(vars, set)
	if limit > 0 && count > limit {
		return &LimitError{Count: count, Limit: limit}
	}

	columns := make([][]float64, len(vars))
	for i, name := range vars {
		columns[i] = valuesOf(set, name)
	}

	odometer := make([]int, len(vars))
	for {
		values := make([]float64, len(vars))
		for i, c := range columns {
			values[i] = c[odometer[i]]
		}

		err := fn(Vector{Names: vars, Values: values})
		if errors.Is(err, Stop) {
			return nil
		}
		if err != nil {
			return err
		}

		i := len(odometer) - 1
		for ; i >= 0; i-- {
			odometer[i]++
			if odometer[i] < len(columns[i]) {
				break
			}
			odometer[i] = 0
		}

		if i < 0 {
			return nil
		}
	}
}
