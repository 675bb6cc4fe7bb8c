package formatter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvitoroc/selcheck/oracle"
	"github.com/jvitoroc/selcheck/probe"
)

func init() {
	color.NoColor = true
}

func TestFormatVerdictCounterexample(t *testing.T) {
	a := "(pt_2 > 20) && (pt_2 < 25)"
	b := "(pt_2>=20)&&(pt_2<25)"
	v := oracle.New(oracle.DefaultOptions()).Check(a, b)

	expected := `error: expressions differ
 --> A: (pt_2 > 20) && (pt_2 < 25)
 --> B: (pt_2>=20)&&(pt_2<25)
  |
  | structural: different
  |   A: ((pt_2 < 25) && (pt_2 > 20))
  |   B: ((pt_2 < 25) && (pt_2 >= 20))
  | semantic: different after 2 probes
  = counterexample: pt_2=20 gives A=0, B=1
`

	assert.Equal(t, expected, FormatVerdict(a, b, v))
}

func TestFormatVerdictPass(t *testing.T) {
	v := oracle.New(oracle.DefaultOptions()).Check("a && b", "b && a")

	expected := `ok: expressions are equivalent
 --> A: a && b
 --> B: b && a
  |
  | structural: equal
  |   A: (a && b)
  |   B: (a && b)
  | semantic: equal on 1 probe
`

	assert.Equal(t, expected, FormatVerdict("a && b", "b && a", v))
}

func TestFormatVerdictErrors(t *testing.T) {
	opts := oracle.DefaultOptions()
	opts.SkipSemantic = true
	v := oracle.New(opts).Check("a >", "foo(a) > 1")

	out := FormatVerdict("a >", "foo(a) > 1", v)
	assert.Contains(t, out, "error: expressions differ\n")
	assert.Contains(t, out, "structural: not compared\n")
	assert.Contains(t, out, "A: syntax error: expected operand after '>' at 1:4\n")
	assert.Contains(t, out, "B: (foo(a) > 1)\n")
	assert.Contains(t, out, "semantic: skipped\n")
	assert.Contains(t, out, "warning: 'foo' on side B is not a variable of the parsed expression\n")
}

func TestFormatReports(t *testing.T) {
	pairs := []oracle.Pair{
		{Name: "same", A: "x > 1", B: "1 < x"},
		{Name: "edge", A: "x > 1", B: "x >= 1"},
	}
	reports := oracle.RunBatch(oracle.New(oracle.DefaultOptions()), pairs, 2)

	out := FormatReports(reports)
	assert.Contains(t, out, "[same]\nok: expressions are equivalent\n")
	assert.Contains(t, out, "[edge]\nerror: expressions differ\n")
	assert.Contains(t, out, "counterexample: x=1 gives A=0, B=1\n")
	assert.Contains(t, out, "2 pairs checked, 1 passed, 1 failed\n")
}

func TestWriteJSON(t *testing.T) {
	pairs := []oracle.Pair{
		{Name: "edge", A: "x > 1", B: "x >= 1"},
		{Name: "nan", A: "sqrt(x - 1)", B: "x"},
	}
	reports := oracle.RunBatch(oracle.New(oracle.DefaultOptions()), pairs, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, reports))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "edge", got[0]["name"])
	assert.Equal(t, false, got[0]["pass"])
	assert.Equal(t, reports[0].ID, got[0]["id"])
	assert.Equal(t, map[string]any{
		"probe":    map[string]any{"x": 1.0},
		"result_a": "0",
		"result_b": "1",
	}, got[0]["counterexample"])

	ce := got[1]["counterexample"].(map[string]any)
	assert.Equal(t, "NaN", ce["result_a"])
}

func TestFormatProbes(t *testing.T) {
	a, b := "pt_2 > 20 && flag > 0.5", "pt_2 >= 20 && flag == 1"
	cfg := probe.DefaultConfig(nil)
	vars := probe.Union(probe.Variables(a, nil), probe.Variables(b, nil))

	expected := `flag: {0, 1}
pt_2: {19.9, 20, 20.1}
6 probe vectors
`

	assert.Equal(t, expected, FormatProbes(vars, probe.Candidates(a, b, cfg)))
}
