package selection

import (
	"regexp"
	"strings"
)

type tokenType string

const (
	numberLiteral    tokenType = "number_literal"
	identifier       tokenType = "identifier"
	parameter        tokenType = "parameter"
	call             tokenType = "call"
	comma            tokenType = "comma"
	leftParenthesis  tokenType = "left_parenthesis"
	rightParenthesis tokenType = "right_parenthesis"
	and              tokenType = "and"
	or               tokenType = "or"
	equal            tokenType = "equal"
	notEqual         tokenType = "not_equal"
	greaterEqual     tokenType = "greater_equal"
	greater          tokenType = "greater"
	lessEqual        tokenType = "less_equal"
	less             tokenType = "less"
	add              tokenType = "add"
	subtract         tokenType = "subtract"
	multiply         tokenType = "multiply"
	divide           tokenType = "divide"
	not              tokenType = "not"
	negate           tokenType = "negate"
	plus             tokenType = "plus"
	whitespace       tokenType = "whitespace"
	invalid          tokenType = "invalid"
)

type tokenRegexps struct {
	name    tokenType
	regexps []*regexp.Regexp
}

var (
	regexps = []*tokenRegexps{
		{
			name:    whitespace,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\s+`)},
		},
		{
			name: numberLiteral,
			regexps: []*regexp.Regexp{
				regexp.MustCompile(`^\d+\.?\d*([eE][+-]?\d+)?`),
				regexp.MustCompile(`^\.\d+([eE][+-]?\d+)?`),
			},
		},
		{
			name:    identifier,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^[A-Za-z_]\w*`)},
		},
		{
			name:    parameter,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\[\d+\]`)},
		},
		{
			name:    comma,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^,`)},
		},
		{
			name:    leftParenthesis,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\(`)},
		},
		{
			name:    rightParenthesis,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\)`)},
		},
		{
			name:    and,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^&&`)},
		},
		{
			name:    or,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\|\|`)},
		},
		{
			name:    equal,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^==`)},
		},
		{
			name:    notEqual,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^!=`)},
		},
		{
			name:    greaterEqual,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^>=`)},
		},
		{
			name:    greater,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^>`)},
		},
		{
			name:    lessEqual,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^<=`)},
		},
		{
			name:    less,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^<`)},
		},
		{
			name:    not,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^!`)},
		},
		{
			name:    add,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\+`)},
		},
		{
			name:    subtract,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^-`)},
		},
		{
			name:    multiply,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^\*`)},
		},
		{
			name:    divide,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^/`)},
		},
		{
			name:    invalid,
			regexps: []*regexp.Regexp{regexp.MustCompile(`^.`)},
		},
	}
)

// spellings maps operator text to its token type; aliases must resolve to
// one of these.
var spellings = map[string]tokenType{
	"&&": and,
	"||": or,
	"==": equal,
	"!=": notEqual,
	">=": greaterEqual,
	">":  greater,
	"<=": lessEqual,
	"<":  less,
	"!":  not,
	"+":  add,
	"-":  subtract,
	"*":  multiply,
	"/":  divide,
}

type tokenizer struct {
	text    string
	cursor  int
	line    int
	column  int
	cfg     Config
}

func newTokenizer(text string, cfg Config) *tokenizer {
	return &tokenizer{text: text, line: 1, column: 1, cfg: cfg}
}

func (t *tokenizer) getNextToken() (*token, error) {
	if t.cursor >= len(t.text) {
		return &tokenNoop, nil
	}

	s := t.text[t.cursor:]
	match := ""
	var tk *token

	line, column := t.getLineColumn(0)

	for _, tr := range regexps {
		for _, r := range tr.regexps {
			match = r.FindString(s)
			if match != "" {
				tk = &token{
					_type:    tr.name,
					strValue: match,

					line:   line,
					column: column,
				}
				break
			}
		}
		if match != "" {
			break
		}
	}

	t.cursor += len(match)
	t.line, t.column = t.getLineColumn(0)

	if tk == nil {
		return nil, newSyntaxError(line, column, "couldn't decipher token")
	}

	if tk._type == whitespace {
		return t.getNextToken()
	}

	if tk._type == invalid {
		return nil, newSyntaxError(line, column, "unknown operator '%s'", tk.strValue)
	}

	if tk._type == parameter && !t.cfg.Placeholders {
		return nil, newSyntaxError(line, column, "unexpected placeholder '%s'", tk.strValue)
	}

	if tk._type == identifier {
		if target, ok := t.cfg.Aliases[tk.strValue]; ok {
			_type, ok := spellings[strings.TrimSpace(target)]
			if !ok {
				return nil, newSyntaxError(line, column, "alias '%s' refers to unknown operator '%s'", tk.strValue, target)
			}
			tk._type = _type
		}
	}

	if err := tk.convertToGoType(); err != nil {
		return nil, newSyntaxError(line, column, "invalid literal '%s' of type '%s'", tk.strValue, tk._type)
	}

	return tk, nil
}

func (t *tokenizer) getLineColumn(skip int) (int, int) {
	skipTotal := t.cursor + skip

	if skipTotal > len(t.text) {
		skipTotal = len(t.text)
	}

	firstHalf := t.text[:skipTotal]

	column := len(firstHalf) - strings.LastIndex(firstHalf, "\n")
	line := strings.Count(firstHalf, "\n") + 1

	return line, column
}

func (t *tokenizer) tokenize() ([]token, error) {
	tokens := make([]token, 0)
	for {
		tk, err := t.getNextToken()
		if err != nil {
			return nil, err
		}

		if *tk == tokenNoop {
			break
		}

		tokens = append(tokens, *tk)
	}

	return tokens, nil
}
