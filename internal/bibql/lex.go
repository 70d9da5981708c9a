package bibql

// Lex a bibliographic query string into a slice of tokens.
//
// Dev Note:
// This lexer code structure is based on https://golang.org/src/text/template/parse/lex.go
// https://www.youtube.com/watch?v=HxaD_trXwRE is a talk introducing it.
// The interesting query-specific bits are (a) the token type `tokType`
// definitions, (b) the `lex*()` state functions, and (c) that whitespace is
// emitted as a token of its own: token adjacency is meaningful to the parser
// (`foo:bar` vs `foo bar`, `e(+)e(-)` vs `e (+) e (-)`), so it cannot be
// discarded here.
//
// Tokens are collected into a slice rather than streamed, because the parser
// backtracks over them.
//
// The lexer never fails on plain content: bytes that fit no other class
// accumulate into XWORD tokens. The only error it can produce is an
// unterminated quoted string.

import (
	"fmt"
	"strings"
)

type tokType int

type token struct {
	typ tokType
	pos int // byte offset of this token in the input string
	val string
}

const (
	tokTypeError tokType = iota
	tokTypeEOF
	tokTypeWS
	tokTypeWord
	tokTypeXWord
	tokTypeSingleQuoted
	tokTypeDoubleQuoted
	tokTypeRegexQuoted
	// tokTypeSpecials is not an actual type, but used to assist String() impl.
	// Types of tokens with special meaning in the query language are listed
	// after here.
	tokTypeSpecials
	tokTypeFind
	tokTypeColon
	tokTypeArrow
	tokTypeOpenParen
	tokTypeCloseParen
	tokTypeAnd
	tokTypeOr
	tokTypeNot
	tokTypePipe
	tokTypePlus
	tokTypeMinus
	tokTypeStar
	tokTypeGt
	tokTypeGte
	tokTypeLt
	tokTypeLte
	tokTypeAfter
	tokTypeBefore
)

// Make the types prettyprint for testing/debugging.
var nameFromTokType = map[tokType]string{
	tokTypeError:        "error",
	tokTypeEOF:          "EOF",
	tokTypeWS:           "whitespace",
	tokTypeWord:         "word",
	tokTypeXWord:        "xword",
	tokTypeSingleQuoted: "single-quoted string",
	tokTypeDoubleQuoted: "double-quoted string",
	tokTypeRegexQuoted:  "regex string",
	tokTypeFind:         "find",
	tokTypeColon:        ":",
	tokTypeArrow:        "->",
	tokTypeOpenParen:    "(",
	tokTypeCloseParen:   ")",
	tokTypeAnd:          "and",
	tokTypeOr:           "or",
	tokTypeNot:          "not",
	tokTypePipe:         "|",
	tokTypePlus:         "+",
	tokTypeMinus:        "-",
	tokTypeStar:         "*",
	tokTypeGt:           ">",
	tokTypeGte:          ">=",
	tokTypeLt:           "<",
	tokTypeLte:          "<=",
	tokTypeAfter:        "after",
	tokTypeBefore:       "before",
}

func (tt tokType) String() string {
	name := nameFromTokType[tt]
	if name == "" {
		return fmt.Sprintf("token%d", int(tt))
	}
	return name
}

func (t token) String() string {
	switch {
	case t.typ == tokTypeEOF:
		return "EOF"
	case t.typ == tokTypeError:
		return fmt.Sprintf("<error: %s>", t.val)
	case t.typ > tokTypeSpecials:
		return t.val
	default:
		return fmt.Sprintf("%q", t.val)
	}
}

const eof = -1

// lexerStateFn represents the state of the scanner.
type lexerStateFn func(*lexer) lexerStateFn

// lexer holds the state of the scanner.
type lexer struct {
	input  string  // the string being scanned
	start  int     // the start position of this token
	pos    int     // current position in the input
	tokens []token // scanned tokens
}

// next returns the next byte in the input. Scanning is byte-wise: the word
// class is ASCII and everything multi-byte lands in XWORD regardless.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	b := l.input[l.pos]
	l.pos++
	return rune(b)
}

// peek returns but does not consume the next byte in the input.
func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	return rune(l.input[l.pos])
}

// backup steps back one byte. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos--
}

// emit appends a token for the pending input region.
func (l *lexer) emit(t tokType) {
	l.tokens = append(l.tokens, token{t, l.start, l.input[l.start:l.pos]})
	l.start = l.pos
}

// errorf appends an error token and terminates the scan.
func (l *lexer) errorf(format string, args ...interface{}) lexerStateFn {
	l.tokens = append(l.tokens, token{tokTypeError, l.start, fmt.Sprintf(format, args...)})
	return nil
}

// lastTokType returns the type of the most recently emitted token, or
// tokTypeEOF if none has been emitted yet.
func (l *lexer) lastTokType() tokType {
	if len(l.tokens) == 0 {
		return tokTypeEOF
	}
	return l.tokens[len(l.tokens)-1].typ
}

// atStart reports whether no token other than whitespace has been emitted
// yet. `find` (and its `fin`/`f` abbreviations) only has its special meaning
// here, so that a `find` inside a value is left alone.
func (l *lexer) atStart() bool {
	for _, t := range l.tokens {
		if t.typ != tokTypeWS {
			return false
		}
	}
	return true
}

// atBoundary reports whether the scan position sits at a token boundary, as
// opposed to being run up against word or value material. A quote delimiter
// only opens a quoted string at a boundary; mid-value quotes (O'Shea,
// hep-th/0201100) are ordinary value bytes.
func (l *lexer) atBoundary() bool {
	switch l.lastTokType() {
	case tokTypeWord, tokTypeXWord, tokTypeCloseParen, tokTypeStar,
		tokTypeMinus, tokTypePlus,
		tokTypeSingleQuoted, tokTypeDoubleQuoted, tokTypeRegexQuoted:
		return false
	}
	return true
}

// lex scans the input string into tokens. The returned slice always ends
// with an EOF or error token.
func lex(input string) []token {
	l := &lexer{input: input}
	for state := lexAny; state != nil; {
		state = state(l)
	}
	return l.tokens
}

// lexAny is the top-level state: dispatch on the next byte.
func lexAny(l *lexer) lexerStateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(tokTypeEOF)
		return nil
	case isSpace(r):
		return lexSpace
	case r == '(':
		l.emit(tokTypeOpenParen)
	case r == ')':
		l.emit(tokTypeCloseParen)
	case r == ':':
		l.emit(tokTypeColon)
	case r == '|':
		l.emit(tokTypePipe)
	case r == '+':
		l.emit(tokTypePlus)
	case r == '*':
		l.emit(tokTypeStar)
	case r == '-':
		if l.peek() == '>' {
			l.next()
			l.emit(tokTypeArrow)
		} else {
			l.emit(tokTypeMinus)
		}
	case r == '<':
		if l.peek() == '=' {
			l.next()
			l.emit(tokTypeLte)
		} else {
			l.emit(tokTypeLt)
		}
	case r == '>':
		if l.peek() == '=' {
			l.next()
			l.emit(tokTypeGte)
		} else {
			l.emit(tokTypeGt)
		}
	case isQuote(r):
		if l.atBoundary() {
			return lexQuoted(r)
		}
		// Mid-value quote: value material.
		return lexXWord
	case isWordChar(r):
		return lexWord
	default:
		return lexXWord
	}
	return lexAny
}

// lexSpace scans a run of whitespace. The first space byte is already
// consumed.
func lexSpace(l *lexer) lexerStateFn {
	for isSpace(l.peek()) {
		l.next()
	}
	l.emit(tokTypeWS)
	return lexAny
}

// lexWord scans a maximal run of word characters, then decides whether it is
// one of the reserved words. Reserved words are case-insensitive, and the
// maximal run guarantees the word boundaries they require.
func lexWord(l *lexer) lexerStateFn {
	for isWordChar(l.peek()) {
		l.next()
	}
	switch strings.ToLower(l.input[l.start:l.pos]) {
	case "and":
		l.emit(tokTypeAnd)
	case "or":
		l.emit(tokTypeOr)
	case "not":
		l.emit(tokTypeNot)
	case "after":
		l.emit(tokTypeAfter)
	case "before":
		l.emit(tokTypeBefore)
	case "find", "fin", "f":
		if l.atStart() {
			l.emit(tokTypeFind)
		} else {
			l.emit(tokTypeWord)
		}
	default:
		l.emit(tokTypeWord)
	}
	return lexAny
}

// lexXWord scans a maximal run of bytes that are not word characters, not
// whitespace, and not operator bytes. Quote bytes continue the run: once
// inside value material they have no delimiting meaning. This is what keeps
// commas, periods, slashes and accented letters together in values like
// `phys.rev.,D50,1140` and `hep-th/0201100`.
func lexXWord(l *lexer) lexerStateFn {
	for {
		r := l.peek()
		if r == eof || isSpace(r) || isWordChar(r) || isOperatorByte(r) {
			break
		}
		l.next()
	}
	l.emit(tokTypeXWord)
	return lexAny
}

// lexQuoted scans a quoted string with the given delimiter. The opening
// delimiter is already consumed. There is no escape interpretation: the
// token spans to the next occurrence of the delimiter, and its inner bytes
// are preserved exactly.
func lexQuoted(delim rune) lexerStateFn {
	return func(l *lexer) lexerStateFn {
		for {
			r := l.next()
			if r == eof {
				return l.errorf("unterminated %c%c string", delim, delim)
			}
			if r == delim {
				break
			}
		}
		switch delim {
		case '\'':
			l.emit(tokTypeSingleQuoted)
		case '"':
			l.emit(tokTypeDoubleQuoted)
		case '/':
			l.emit(tokTypeRegexQuoted)
		}
		return lexAny
	}
}

// isSpace reports whether r is a space character.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isWordChar reports whether r is a word byte: [A-Za-z0-9_].
func isWordChar(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}

// isQuote reports whether r is a quoted-string delimiter.
func isQuote(r rune) bool {
	return r == '\'' || r == '"' || r == '/'
}

// isOperatorByte reports whether r terminates an XWORD run. Quote bytes are
// deliberately absent: see lexXWord.
func isOperatorByte(r rune) bool {
	switch r {
	case '(', ')', ':', '|', '+', '-', '*', '<', '>':
		return true
	}
	return false
}
