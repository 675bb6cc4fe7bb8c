package probe

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type Config struct {
	// Epsilon is the tolerance used to recognise the 1 and 0.5 literals.
	Epsilon float64
	// InequalityOffset is the distance of the probes placed on each side of
	// an inequality threshold.
	InequalityOffset float64
	// InteriorProbes adds the midpoint of every pair of adjacent inequality
	// thresholds of a variable.
	InteriorProbes bool
	// Deny lists words that are never variables, e.g. builtin functions.
	Deny []string
}

func DefaultConfig(deny []string) Config {
	return Config{
		Epsilon:          1e-8,
		InequalityOffset: 0.1,
		InteriorProbes:   true,
		Deny:             deny,
	}
}

// Set maps a variable to its probe values, sorted ascending without
// duplicates.
type Set map[string][]float64

const number = `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`

var (
	varFirst = regexp.MustCompile(`(?:^|[^\w.])([A-Za-z_]\w*)\s*(==|!=|>=|<=|>|<)\s*(` + number + `)`)
	numFirst = regexp.MustCompile(`(?:^|[^\w.])(` + number + `)\s*(==|!=|>=|<=|>|<)\s*([A-Za-z_]\w*)`)
)

type comparison struct {
	name  string
	op    string
	value float64
}

func scan(text string, denied map[string]bool) []comparison {
	var found []comparison

	for _, m := range varFirst.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[3], 64)
		if err != nil || denied[m[1]] {
			continue
		}
		found = append(found, comparison{name: m[1], op: m[2], value: v})
	}

	for _, loc := range numFirst.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[6]:loc[7]]
		if denied[name] || strings.HasPrefix(strings.TrimSpace(text[loc[7]:]), "(") {
			continue
		}
		v, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		found = append(found, comparison{name: name, op: text[loc[4]:loc[5]], value: v})
	}

	return found
}

func isInteger(v float64) bool {
	return v == math.Trunc(v) && !math.IsInf(v, 0)
}

// derive returns the probe values for one comparison, and whether its value
// is an inequality threshold.
func derive(c comparison, cfg Config) ([]float64, bool) {
	v := c.value

	switch c.op {
	case "==", "!=":
		if math.Abs(v-1) < cfg.Epsilon {
			return []float64{0, 1}, false
		}
		if isInteger(v) && v > 1 {
			return []float64{v - 1, v, v + 1}, false
		}
		return []float64{v}, false
	}

	if math.Abs(v-0.5) < cfg.Epsilon {
		return []float64{0, 1}, false
	}

	return []float64{v - cfg.InequalityOffset, v, v + cfg.InequalityOffset}, true
}

// Candidates pools the literal comparisons of both texts into one probe set.
// Every variable of either text gets an entry; variables never compared with
// a literal get {0}. The result does not depend on the order of a and b.
func Candidates(a, b string, cfg Config) Set {
	denied := toSet(cfg.Deny)

	values := map[string][]float64{}
	thresholds := map[string][]float64{}

	for _, c := range append(scan(a, denied), scan(b, denied)...) {
		vs, isThreshold := derive(c, cfg)
		values[c.name] = append(values[c.name], vs...)
		if isThreshold {
			thresholds[c.name] = append(thresholds[c.name], c.value)
		}
	}

	if cfg.InteriorProbes {
		for name, ts := range thresholds {
			ts = sortedUnique(ts)
			for i := 1; i < len(ts); i++ {
				values[name] = append(values[name], ts[i-1]+(ts[i]-ts[i-1])/2)
			}
		}
	}

	set := Set{}
	for _, name := range Union(Variables(a, cfg.Deny), Variables(b, cfg.Deny)) {
		set[name] = []float64{0}
	}
	for name, vs := range values {
		set[name] = sortedUnique(vs)
	}

	return set
}

func sortedUnique(vs []float64) []float64 {
	out := append([]float64(nil), vs...)
	sort.Float64s(out)

	n := 0
	for i, v := range out {
		if i > 0 && v == out[n-1] {
			continue
		}
		out[n] = v
		n++
	}

	return out[:n]
}
