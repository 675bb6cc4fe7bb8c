package probe

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// words matches numbers before identifiers so the exponent of 1e5 is never
// read as a name.
var words = regexp.MustCompile(`(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?|[A-Za-z_]\w*`)

func isIdentifierStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Variables returns the sorted, distinct identifiers of text that are not in
// deny. It is a lexical scan and accepts text the parser would reject.
func Variables(text string, deny []string) []string {
	denied := toSet(deny)
	seen := map[string]bool{}

	for _, w := range words.FindAllString(text, -1) {
		if !isIdentifierStart(w[0]) || denied[w] {
			continue
		}
		seen[w] = true
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Union merges sorted name lists.
func Union(lists ...[]string) []string {
	seen := map[string]bool{}
	for _, l := range lists {
		for _, n := range l {
			seen[n] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Parametrize replaces every variable of text listed in vars with its [i]
// placeholder, i being the position in vars. Denied words and numbers are
// copied as they are.
func Parametrize(text string, vars []string) string {
	index := make(map[string]int, len(vars))
	for i, v := range vars {
		index[v] = i
	}

	var b strings.Builder
	last := 0
	for _, loc := range words.FindAllStringIndex(text, -1) {
		w := text[loc[0]:loc[1]]
		i, ok := index[w]
		if !ok {
			continue
		}

		b.WriteString(text[last:loc[0]])
		b.WriteString("[" + strconv.Itoa(i) + "]")
		last = loc[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

func toSet(list []string) map[string]bool {
	s := make(map[string]bool, len(list))
	for _, v := range list {
		s[v] = true
	}

	return s
}
