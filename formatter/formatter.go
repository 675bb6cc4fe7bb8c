package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jvitoroc/selcheck/eval"
	"github.com/jvitoroc/selcheck/oracle"
	"github.com/jvitoroc/selcheck/probe"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	okStyle         = color.New(color.FgGreen, color.Bold)
	sideStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed)
	suggestionStyle = color.New(color.FgGreen)
	noStyle         = color.New(color.FgWhite)
)

// FormatVerdict renders the verdict for the pair a, b for a human reviewer.
func FormatVerdict(a, b string, v *oracle.Verdict) string {
	var builder strings.Builder

	if v.Pass() {
		builder.WriteString(okStyle.Sprint("ok: "))
		builder.WriteString(noStyle.Sprint("expressions are equivalent\n"))
	} else {
		builder.WriteString(errorStyle.Sprint("error: "))
		builder.WriteString(noStyle.Sprint("expressions differ\n"))
	}

	builder.WriteString(side(oracle.SideA, a))
	builder.WriteString(side(oracle.SideB, b))
	builder.WriteString(lineStyle.Sprint("  |\n"))

	builder.WriteString(structural(v))
	builder.WriteString(semantic(v))

	for _, w := range v.Warnings {
		builder.WriteString(lineStyle.Sprint("  = "))
		builder.WriteString(warningStyle.Sprint("warning: "))
		builder.WriteString(noStyle.Sprintf("%s\n", w))
	}

	if c := v.Counterexample; c != nil {
		builder.WriteString(lineStyle.Sprint("  = "))
		builder.WriteString(suggestionStyle.Sprintf("counterexample: %s gives A=%s, B=%s\n",
			c.Vector, eval.FormatNumber(c.ResultA), eval.FormatNumber(c.ResultB)))
	}

	return builder.String()
}

func side(name, text string) string {
	return lineStyle.Sprint(" --> ") + sideStyle.Sprintf("%s: ", name) + noStyle.Sprintf("%s\n", text)
}

func structural(v *oracle.Verdict) string {
	var builder strings.Builder

	builder.WriteString(lineStyle.Sprint("  | "))
	switch {
	case v.ErrA != nil || v.ErrB != nil:
		builder.WriteString(messageStyle.Sprint("structural: not compared\n"))
	case v.Structural:
		builder.WriteString(noStyle.Sprint("structural: equal\n"))
	default:
		builder.WriteString(messageStyle.Sprint("structural: different\n"))
	}

	for _, s := range []struct {
		name      string
		canonical string
		err       error
	}{
		{oracle.SideA, v.CanonicalA, v.ErrA},
		{oracle.SideB, v.CanonicalB, v.ErrB},
	} {
		builder.WriteString(lineStyle.Sprint("  |   "))
		if s.err != nil {
			builder.WriteString(messageStyle.Sprintf("%s: syntax error: %v\n", s.name, s.err))
			continue
		}
		builder.WriteString(noStyle.Sprintf("%s: %s\n", s.name, s.canonical))
	}

	return builder.String()
}

func semantic(v *oracle.Verdict) string {
	prefix := lineStyle.Sprint("  | ")

	switch {
	case v.SemanticSkipped:
		return prefix + noStyle.Sprint("semantic: skipped\n")
	case v.SemanticErr != nil:
		return prefix + messageStyle.Sprintf("semantic: %v\n", v.SemanticErr)
	case v.Semantic:
		return prefix + noStyle.Sprintf("semantic: equal on %s\n", plural(v.Probes, "probe"))
	default:
		return prefix + messageStyle.Sprintf("semantic: different after %s\n", plural(v.Probes, "probe"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}

	return fmt.Sprintf("%d %ss", n, word)
}

// FormatReports renders every report followed by a summary line.
func FormatReports(reports []*oracle.Report) string {
	var builder strings.Builder

	failed := 0
	for _, r := range reports {
		if !r.Verdict.Pass() {
			failed++
		}
		builder.WriteString(sideStyle.Sprintf("[%s]\n", r.Pair.Name))
		builder.WriteString(FormatVerdict(r.Pair.A, r.Pair.B, r.Verdict))
		builder.WriteString("\n")
	}

	summary := fmt.Sprintf("%s checked, %d passed, %d failed\n", plural(len(reports), "pair"), len(reports)-failed, failed)
	if failed > 0 {
		builder.WriteString(errorStyle.Sprint(summary))
	} else {
		builder.WriteString(okStyle.Sprint(summary))
	}

	return builder.String()
}

type jsonCounterexample struct {
	Probe   map[string]float64 `json:"probe"`
	ResultA string             `json:"result_a"`
	ResultB string             `json:"result_b"`
}

type jsonReport struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	A               string              `json:"a"`
	B               string              `json:"b"`
	Pass            bool                `json:"pass"`
	Structural      bool                `json:"structural"`
	Semantic        bool                `json:"semantic"`
	SemanticSkipped bool                `json:"semantic_skipped,omitempty"`
	CanonicalA      string              `json:"canonical_a,omitempty"`
	CanonicalB      string              `json:"canonical_b,omitempty"`
	Probes          int                 `json:"probes"`
	Counterexample  *jsonCounterexample `json:"counterexample,omitempty"`
	Errors          []string            `json:"errors,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
}

func toJSON(r *oracle.Report) jsonReport {
	v := r.Verdict
	out := jsonReport{
		ID:              r.ID,
		Name:            r.Pair.Name,
		A:               r.Pair.A,
		B:               r.Pair.B,
		Pass:            v.Pass(),
		Structural:      v.Structural,
		Semantic:        v.Semantic,
		SemanticSkipped: v.SemanticSkipped,
		CanonicalA:      v.CanonicalA,
		CanonicalB:      v.CanonicalB,
		Probes:          v.Probes,
	}

	if c := v.Counterexample; c != nil {
		out.Counterexample = &jsonCounterexample{
			Probe:   c.Vector.Map(),
			ResultA: eval.FormatNumber(c.ResultA),
			ResultB: eval.FormatNumber(c.ResultB),
		}
	}

	for _, err := range []error{v.ErrA, v.ErrB, v.SemanticErr} {
		if err != nil {
			out.Errors = append(out.Errors, err.Error())
		}
	}

	for _, w := range v.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	return out
}

// WriteJSON writes the reports as an indented JSON array. Results are
// written as strings because they can be NaN or infinite.
func WriteJSON(w io.Writer, reports []*oracle.Report) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, toJSON(r))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(out)
}

// FormatProbes lists the variables and probe values of a pair and the size
// of their product.
func FormatProbes(vars []string, set probe.Set) string {
	var builder strings.Builder

	for _, name := range vars {
		values := set[name]
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = eval.FormatNumber(v)
		}
		builder.WriteString(sideStyle.Sprintf("%s", name))
		builder.WriteString(noStyle.Sprintf(": {%s}\n", strings.Join(parts, ", ")))
	}

	builder.WriteString(noStyle.Sprintf("%s\n", plural(probe.Count(vars, set), "probe vector")))

	return builder.String()
}
