package bibql

// Parse errors are values carrying the error kind, a message, and the byte
// offset in the query at which the problem was detected. Error() renders a
// caret context line pointing into the query.

import (
	"fmt"
	"strings"
)

// LexError is a scanning failure: the only way to produce one is an
// unterminated quoted string.
type LexError struct {
	Query  string
	Offset int
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error: %s%s", e.Msg, caretContext(e.Query, e.Offset))
}

// SyntaxError is a grammar failure: mismatched parentheses, a `:` without a
// keyword or right-hand side, a `->` with a missing endpoint, or a stray
// operator.
type SyntaxError struct {
	Query  string
	Offset int
	Msg    string
	Tok    string // the offending token fragment, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s%s", e.Msg, caretContext(e.Query, e.Offset))
}

// caretContext renders the query with a `....^` pointer under the given
// byte offset.
func caretContext(query string, offset int) string {
	if offset > len(query) {
		offset = len(query)
	}
	return fmt.Sprintf("\n    %s\n    %s^", query, strings.Repeat(".", offset))
}
