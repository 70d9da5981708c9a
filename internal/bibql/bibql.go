// Package bibql lexes and parses bibliographic search queries, in both the
// modern `field:value` syntax and the SPIRES `find field value` syntax, to
// the AST consumed by the walker passes.
//
// Usage:
//     tree, err := bibql.Parse(`find a ellis and t quark`)
//     if err != nil {
//         // *bibql.LexError or *bibql.SyntaxError, with byte offset
//     }
//     // hand `tree` to the canonicalise/print passes
package bibql

import "github.com/bibql/go-bibql/internal/ast"

// Parse parses a query string. Whitespace-only input yields an
// *ast.EmptyQuery rather than an error.
func Parse(query string) (ast.Node, error) {
	return newParser(query).parse()
}

// MustParse is Parse for fixtures known to be valid; it panics on error.
func MustParse(query string) ast.Node {
	n, err := Parse(query)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// ScannedToken is one lexed token of a query, exposed for token-stream
// debugging and output highlighting.
type ScannedToken struct {
	Kind   string // e.g. "word", ":", "and", "whitespace", "error"
	Offset int
	Text   string
}

// Scan lexes a query without parsing it. The final token is EOF, or an
// error token whose Text is the message.
func Scan(query string) []ScannedToken {
	toks := lex(query)
	out := make([]ScannedToken, 0, len(toks))
	for _, t := range toks {
		out = append(out, ScannedToken{Kind: t.typ.String(), Offset: t.pos, Text: t.val})
	}
	return out
}
