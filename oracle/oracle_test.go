package oracle

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jvitoroc/selcheck/probe"
	"github.com/jvitoroc/selcheck/selection"
)

func TestCheckBoundaryRewrite(t *testing.T) {
	o := New(DefaultOptions())

	v := o.Check("(pt_2 > 20) && (pt_2 < 25)", "(pt_2>=20)&&(pt_2<25)")

	assert.False(t, v.Structural)
	assert.False(t, v.Semantic)
	assert.False(t, v.Pass())
	require.NoError(t, v.SemanticErr)
	require.NotNil(t, v.Counterexample)

	assert.Equal(t, []string{"pt_2"}, v.Counterexample.Vector.Names)
	assert.Equal(t, []float64{20}, v.Counterexample.Vector.Values)
	assert.Equal(t, 0.0, v.Counterexample.ResultA)
	assert.Equal(t, 1.0, v.Counterexample.ResultB)
}

func TestCheckPermutation(t *testing.T) {
	o := New(DefaultOptions())

	v := o.Check("(a&&b)&&c", "c&&(b&&a)")

	assert.True(t, v.Structural)
	assert.True(t, v.Semantic)
	assert.True(t, v.Pass())
	assert.Nil(t, v.Counterexample)
	assert.Equal(t, v.CanonicalA, v.CanonicalB)
	assert.Equal(t, 1, v.Probes)
}

func TestCheckFlagThreshold(t *testing.T) {
	o := New(DefaultOptions())

	v := o.Check("trg_flag > 0.5 && pt_1 > 30", "pt_1 > 30 && trg_flag == 1.0")

	assert.True(t, v.Structural)
	assert.True(t, v.Semantic)
	assert.Greater(t, v.Probes, 1)
}

func TestSemanticEqual(t *testing.T) {
	tests := []struct {
		a, b      string
		wantEqual bool
	}{
		{"a&&b", "b&&a", true},
		{"x>20", "x>=20.0001", false},
		{"njets == 2 || njets == 3", "njets >= 2 && njets <= 3", false},
		{"njets >= 2", "njets > 1", false},
		{"njets >= 2", "!(njets < 2)", true},
		{"njets == 2", "njets >= 2", false},
		{"abs(eta) < 2.1", "eta < 2.1 && eta > -2.1", true},
		{"x * 2 > 10", "x > 5", true},
		{"mt_1 < 50", "mt_1 <= 50", false},
		{"1 + 1", "2", true},
	}

	o := New(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			res, err := o.SemanticEqual(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEqual, res.Equal)
			assert.Equal(t, !tt.wantEqual, res.Counterexample != nil)
		})
	}
}

func TestSemanticCounterexampleNearBoundary(t *testing.T) {
	o := New(DefaultOptions())

	res, err := o.SemanticEqual("x>20", "x>=20.0001")
	require.NoError(t, err)
	require.NotNil(t, res.Counterexample)

	x := res.Counterexample.Vector.Values[0]
	assert.InDelta(t, 20, x, 1e-3)
	assert.True(t, x > 20 && x < 20.0001)
}

func TestSemanticEqualTolerance(t *testing.T) {
	opts := DefaultOptions()
	opts.Tolerance = 0.01
	o := New(opts)

	res, err := o.SemanticEqual("x * 1.001", "x")
	require.NoError(t, err)
	assert.True(t, res.Equal, "x is 0 on every probe")

	res, err = o.SemanticEqual("x * 1.001 + (x > 3)", "x + (x > 3)")
	require.NoError(t, err)
	assert.True(t, res.Equal)

	res, err = o.SemanticEqual("x * 1.1 + (x > 3)", "x + (x > 3)")
	require.NoError(t, err)
	assert.False(t, res.Equal)
}

func TestSemanticNaN(t *testing.T) {
	o := New(DefaultOptions())

	res, err := o.SemanticEqual("sqrt(-1 - x)", "sqrt(-2 - x)")
	require.NoError(t, err)
	assert.True(t, res.Equal, "both sides are NaN")

	res, err = o.SemanticEqual("sqrt(x - 1)", "x")
	require.NoError(t, err)
	assert.False(t, res.Equal)
}

func TestSemanticLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxProbes = 5
	o := New(opts)

	res, err := o.SemanticEqual("a > 1 && b > 2", "a > 1 && b > 2")

	var le *probe.LimitError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 9, le.Count)
	assert.Equal(t, 0, res.Probes)

	v := o.Check("a > 1 && b > 2", "a > 1 && b > 2")
	assert.True(t, v.Structural)
	assert.False(t, v.Semantic)
	assert.False(t, v.Pass())
	assert.ErrorAs(t, v.SemanticErr, &le)
}

func TestSyntaxErrorsSurface(t *testing.T) {
	o := New(DefaultOptions())

	v := o.Check("(pt_2 > 20", "pt_2 > 20")

	var se *selection.SyntaxError
	require.ErrorAs(t, v.ErrA, &se)
	assert.NoError(t, v.ErrB)
	assert.False(t, v.Structural)
	assert.False(t, v.Pass())

	var ee *EvaluatorError
	require.ErrorAs(t, v.SemanticErr, &ee)
	assert.Equal(t, SideA, ee.Side)
	assert.Nil(t, ee.Vector)
	assert.Empty(t, v.CanonicalA)
	assert.NotEmpty(t, v.CanonicalB)
}

func TestUnknownFunction(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	o := New(opts)

	v := o.Check("foo(x) > 1", "x > 1")

	require.Len(t, v.Warnings, 1)
	assert.Equal(t, UnboundVariableWarning{Side: SideA, Name: "foo"}, v.Warnings[0])
	assert.Equal(t, 1, logs.FilterMessage("Unbound variable").Len())

	var ee *EvaluatorError
	require.ErrorAs(t, v.SemanticErr, &ee)
	assert.False(t, v.Pass())
}

type mapEvaluator struct {
	calls int
	err   error
}

func (m *mapEvaluator) Evaluate(expression string, params []float64) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}

	return StackEvaluator{}.Evaluate(expression, params)
}

func TestCustomEvaluator(t *testing.T) {
	m := &mapEvaluator{}
	opts := DefaultOptions()
	opts.Evaluator = m
	o := New(opts)

	res, err := o.SemanticEqual("x > 1", "1 < x")
	require.NoError(t, err)
	assert.True(t, res.Equal)
	assert.Equal(t, 2*res.Probes, m.calls)

	m.err = errors.New("backend down")
	_, err = o.SemanticEqual("x > 1", "1 < x")

	var ee *EvaluatorError
	require.ErrorAs(t, err, &ee)
	require.NotNil(t, ee.Vector)
	assert.ErrorIs(t, err, m.err)
}

func TestSkipSemantic(t *testing.T) {
	opts := DefaultOptions()
	opts.SkipSemantic = true
	o := New(opts)

	v := o.Check("a > 1", "1 < a")
	assert.True(t, v.SemanticSkipped)
	assert.True(t, v.Pass())
	assert.Zero(t, v.Probes)
}

func TestStructuralEqual(t *testing.T) {
	o := New(DefaultOptions())

	eq, err := o.StructuralEqual("X > 0.5", "X == 1.0")
	require.NoError(t, err)
	assert.True(t, eq)

	_, err = o.StructuralEqual("X > 0.5", "X ==")
	assert.True(t, selection.IsIncomplete(err))
}

func TestAliases(t *testing.T) {
	opts := DefaultOptions()
	opts.Parser.Aliases = map[string]string{"and": "&&"}
	o := New(opts)

	v := o.Check("a > 1 and b", "b && a > 1")
	require.NoError(t, v.SemanticErr)
	assert.True(t, v.Pass())
	assert.Empty(t, v.Warnings)

	res, err := o.SemanticEqual("a > 1 and b", "b && a > 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Variables)
}

func TestPlaceholdersInInput(t *testing.T) {
	o := New(DefaultOptions())

	v := o.Check("[0] > 20", "pt > 20")

	var se *selection.SyntaxError
	require.ErrorAs(t, v.ErrA, &se)
	assert.False(t, v.Structural)
	assert.False(t, v.Semantic)
	assert.False(t, v.Pass())

	_, err := o.SemanticEqual("pt > 20", "[0] > 20")
	var ee *EvaluatorError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, SideB, ee.Side)
	assert.ErrorAs(t, err, &se)
}

func TestBuiltinsAreNeverUnbound(t *testing.T) {
	opts := DefaultOptions()
	opts.Probes.Deny = nil
	o := New(opts)

	v := o.Check("abs(eta) < 2.1", "eta < 2.1 && -2.1 < eta")
	assert.Empty(t, v.Warnings)
}

func TestStackEvaluator(t *testing.T) {
	tests := []struct {
		expression string
		params     []float64
		want       float64
		wantErr    bool
	}{
		{"([0] > 20) && ([0] < 25)", []float64{21}, 1, false},
		{"pow([0], 2) + [1]", []float64{3, 1}, 10, false},
		{"[1] > 0", []float64{1}, 0, true},
		{"x > 0", nil, 0, true},
		{"[0] >", []float64{1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := StackEvaluator{}.Evaluate(tt.expression, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgree(t *testing.T) {
	assert.True(t, agree(math.Inf(1), math.Inf(1), 1e-8))
	assert.False(t, agree(math.Inf(1), math.Inf(-1), 1e-8))
	assert.True(t, agree(math.NaN(), math.NaN(), 1e-8))
	assert.False(t, agree(math.NaN(), 0, 1e-8))
	assert.True(t, agree(1, 1+1e-9, 1e-8))
	assert.False(t, agree(1, 1+1e-7, 1e-8))
}

func TestRunBatch(t *testing.T) {
	pairs := make([]Pair, 0, 20)
	for i := 0; i < 20; i++ {
		pairs = append(pairs, Pair{
			Name: fmt.Sprintf("cut_%d", i),
			A:    fmt.Sprintf("pt_1 > %d && iso < 0.5", i),
			B:    fmt.Sprintf("iso == 0 && %d < pt_1", i),
		})
	}
	pairs = append(pairs, Pair{A: "x > 1", B: "x >= 1"})

	reports := RunBatch(New(DefaultOptions()), pairs, 4)
	require.Len(t, reports, len(pairs))

	for i, r := range reports[:20] {
		assert.Equal(t, fmt.Sprintf("cut_%d", i), r.Pair.Name)
		assert.True(t, r.Verdict.Pass(), r.Pair.Name)
		assert.NotEmpty(t, r.ID)
	}

	last := reports[len(reports)-1]
	assert.Equal(t, last.ID, last.Pair.Name)
	assert.False(t, last.Verdict.Pass())
}
