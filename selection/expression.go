package selection

import (
	"errors"
	"fmt"
)

// SyntaxError reports text the grammar does not accept.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string

	incomplete bool
}

func newSyntaxError(line, column int, format string, a ...any) *SyntaxError {
	return &SyntaxError{Line: line, Column: column, Msg: fmt.Sprintf(format, a...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Msg, e.Line, e.Column)
}

// IsIncomplete reports whether err means the text stopped early: an
// unclosed parenthesis or a trailing operator. More input may fix it.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.incomplete
	}

	return false
}

// Config carries the parser settings.
type Config struct {
	// Aliases maps words to operator spellings, e.g. "and" -> "&&".
	Aliases map[string]string
	// Placeholders accepts [n] parameter tokens. Only evaluator input,
	// where variables were already replaced, is written with them.
	Placeholders bool
}
