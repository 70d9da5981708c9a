package bibql

// Parsing of a bibliographic query string to an AST.
//
// The grammar is recursive descent over the lexed token slice, with
// save/restore backtracking where the surface syntax is ambiguous. Two
// subgrammars share the value-assembly rules: the modern `field:value`
// syntax, and the SPIRES `find field value` syntax entered when the input
// starts with `find`/`fin`/`f`.
//
// Precedence, from loosest to tightest binding:
//     or, |
//     and, +, implicit adjacency
//     not, -
// Adjacency (two queries separated only by whitespace) is implicit AND.
// Adjacency/`and` chains fold left; the symbolic `+`/`-` chains and SPIRES
// connective chains associate to the right, with a negated element negating
// the remainder of its chain. That asymmetry reproduces the historical
// reading of queries like `aaa +bbb -ccc +ddd`.

import (
	"fmt"
	"strings"

	"github.com/bibql/go-bibql/internal/ast"
)

type valueCtx int

const (
	// ctxModern assembles values for the modern syntax: `:` never joins a
	// value (it would swallow the next `field:` pair).
	ctxModern valueCtx = iota
	// ctxLegacy assembles values for SPIRES clauses: `:` joins
	// (`eprint arxiv:1007.5048`), and an adjacent trailing `+`/`-` ends
	// the value to become a comparison.
	ctxLegacy
)

// secondOrderKeywords are the fields whose value is itself a query. They
// accept a whitespace separator in place of the colon: `refersto author:x`.
var secondOrderKeywords = map[string]bool{
	"refersto": true,
	"citedby":  true,
}

type parser struct {
	query  string
	toks   []token
	pos    int
	lexErr *LexError
}

func newParser(query string) *parser {
	p := &parser{query: query, toks: lex(query)}
	if last := p.toks[len(p.toks)-1]; last.typ == tokTypeError {
		p.lexErr = &LexError{Query: query, Offset: last.pos, Msg: last.val}
	}
	return p
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

// next returns the current token and advances, staying on the terminal
// token once reached.
func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// at reports whether the current token is one of the given types.
func (p *parser) at(types ...tokType) bool {
	t := p.cur().typ
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// peekType returns the type of the token n positions ahead of the current
// one, or EOF past the end.
func (p *parser) peekType(n int) tokType {
	if p.pos+n >= len(p.toks) {
		return tokTypeEOF
	}
	return p.toks[p.pos+n].typ
}

// skipWS consumes a whitespace token if present.
func (p *parser) skipWS() bool {
	if p.at(tokTypeWS) {
		p.next()
		return true
	}
	return false
}

func (p *parser) syntaxErrf(t token, format string, args ...interface{}) error {
	return &SyntaxError{
		Query:  p.query,
		Offset: t.pos,
		Msg:    fmt.Sprintf(format, args...),
		Tok:    t.val,
	}
}

func (p *parser) expect(typ tokType, what string) error {
	if !p.at(typ) {
		return p.syntaxErrf(p.cur(), "%s; got %s", what, p.cur().typ)
	}
	p.next()
	return nil
}

// parse is the entry point: `main := WS? (find_query | query) WS? | WS*`.
func (p *parser) parse() (ast.Node, error) {
	if p.lexErr != nil {
		return nil, p.lexErr
	}
	p.skipWS()
	if p.at(tokTypeEOF) {
		return &ast.EmptyQuery{}, nil
	}

	var root ast.Node
	var err error
	if p.at(tokTypeFind) && p.peekType(1) == tokTypeWS {
		p.next()
		p.skipWS()
		root, err = p.parseSpiresOr()
	} else {
		if p.at(tokTypeFind) {
			// A lone `find` with nothing following it is just a word.
			p.toks[p.pos].typ = tokTypeWord
		}
		root, err = p.parseOr()
	}
	if err != nil {
		return nil, err
	}

	p.skipWS()
	if !p.at(tokTypeEOF) {
		t := p.cur()
		if t.typ == tokTypeCloseParen {
			return nil, p.syntaxErrf(t, "unmatched close parenthesis")
		}
		return nil, p.syntaxErrf(t, "unexpected %s", t.typ)
	}
	return root, nil
}

// ---- modern syntax

// parseOr: `or_query := and_query ((OR | PIPE) WS? and_query)*`, folding
// left.
func (p *parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		mark := p.pos
		p.skipWS()
		if !p.at(tokTypeOr, tokTypePipe) {
			p.pos = mark
			return left, nil
		}
		p.next()
		p.skipWS()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.OrOp{Left: left, Right: right}
	}
}

type andConn int

const (
	connAdj andConn = iota // implicit adjacency, or the word `and`
	connPlus
	connMinus
)

// parseAnd: `and_query := not_query ((AND | PLUS | adj) WS? not_query)*`.
// The chain is collected flat and then assembled: see assembleAnd.
func (p *parser) parseAnd() (ast.Node, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	elems := []ast.Node{first}
	conns := []andConn{connAdj}
	for {
		mark := p.pos
		sawWS := p.skipWS()
		var conn andConn
		switch {
		case p.at(tokTypeAnd):
			p.next()
			p.skipWS()
			conn = connAdj
		case p.at(tokTypePlus):
			p.next()
			p.skipWS()
			conn = connPlus
		case p.at(tokTypeMinus):
			p.next()
			p.skipWS()
			conn = connMinus
		case sawWS && p.atTermStart():
			conn = connAdj
		default:
			p.pos = mark
			return assembleAnd(elems, conns), nil
		}
		elem, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		conns = append(conns, conn)
	}
}

// assembleAnd builds the boolean tree for one and-level chain. Plain
// adjacency/`and` chains fold left (`a b c` is `(a and b) and c`). As soon
// as a symbolic connective participates, the chain associates right and a
// `-` element negates everything from itself onward:
// `aaa +bbb -ccc +ddd` is `aaa and (bbb and not(ccc and ddd))`.
func assembleAnd(elems []ast.Node, conns []andConn) ast.Node {
	if len(elems) == 1 {
		return elems[0]
	}
	symbolic := false
	for _, c := range conns {
		if c != connAdj {
			symbolic = true
			break
		}
	}
	if !symbolic {
		left := elems[0]
		for _, e := range elems[1:] {
			left = &ast.AndOp{Left: left, Right: e}
		}
		return left
	}
	var rec func(i int) ast.Node
	rec = func(i int) ast.Node {
		if i == len(elems)-1 {
			return elems[i]
		}
		rest := rec(i + 1)
		if conns[i+1] == connMinus {
			rest = &ast.NotOp{Op: rest}
		}
		return &ast.AndOp{Left: elems[i], Right: rest}
	}
	return rec(0)
}

// atTermStart reports whether the current token can begin a not_query.
func (p *parser) atTermStart() bool {
	return p.at(tokTypeWord, tokTypeXWord, tokTypeStar,
		tokTypeSingleQuoted, tokTypeDoubleQuoted, tokTypeRegexQuoted,
		tokTypeOpenParen, tokTypeNot)
}

// parseNot: `not_query := (NOT WS | MINUS) not_query | atom`.
func (p *parser) parseNot() (ast.Node, error) {
	if p.at(tokTypeNot, tokTypeMinus) {
		p.next()
		p.skipWS()
		op, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.NotOp{Op: op}, nil
	}
	return p.parseAtom()
}

// parseAtom: `atom := '(' WS? query WS? ')' | simple_query`. Modern
// parentheses are purely structural and leave no node behind.
func (p *parser) parseAtom() (ast.Node, error) {
	if p.at(tokTypeOpenParen) {
		p.next()
		p.skipWS()
		q, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if err := p.expect(tokTypeCloseParen, "mismatched parentheses: expected ')'"); err != nil {
			return nil, err
		}
		return q, nil
	}
	return p.parseSimpleQuery()
}

// parseSimpleQuery: `simple_query := keyword_query | value_query`.
func (p *parser) parseSimpleQuery() (ast.Node, error) {
	if p.at(tokTypeWord) {
		mark := p.pos
		w := p.next()
		sawWS := p.skipWS()
		if p.at(tokTypeColon) {
			p.next()
			p.skipWS()
			rhs, err := p.parseKwRHS()
			if err != nil {
				return nil, err
			}
			return &ast.KeywordOp{Key: &ast.Keyword{Value: w.val}, Val: rhs}, nil
		}
		// Second-order keywords accept a space in place of the colon:
		// `refersto author:Ellis`, `refersto (a or b)`.
		if sawWS && secondOrderKeywords[strings.ToLower(w.val)] &&
			(p.at(tokTypeOpenParen) || p.wordColonAhead()) {
			rhs, err := p.parseKwRHS()
			if err != nil {
				return nil, err
			}
			return &ast.KeywordOp{Key: &ast.Keyword{Value: w.val}, Val: rhs}, nil
		}
		p.pos = mark
	}
	v, err := p.parseValue(ctxModern)
	if err != nil {
		return nil, err
	}
	return &ast.ValueQuery{Val: v}, nil
}

// wordColonAhead reports whether the tokens ahead are `WORD WS? ':'`, i.e.
// the start of a (nested) keyword query.
func (p *parser) wordColonAhead() bool {
	if !p.at(tokTypeWord) {
		return false
	}
	if p.peekType(1) == tokTypeColon {
		return true
	}
	return p.peekType(1) == tokTypeWS && p.peekType(2) == tokTypeColon
}

// parseKwRHS parses the right-hand side of `keyword:`. Nested keyword
// queries recurse (`refersto:author:Ellis`), parentheses hold a whole
// subquery, comparisons are accepted so canonicalised SPIRES comparisons
// reparse to themselves, and anything else is a value.
func (p *parser) parseKwRHS() (ast.Node, error) {
	switch {
	case p.wordColonAhead():
		return p.parseSimpleQuery()
	case p.at(tokTypeOpenParen):
		p.next()
		p.skipWS()
		q, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if err := p.expect(tokTypeCloseParen, "mismatched parentheses: expected ')'"); err != nil {
			return nil, err
		}
		return q, nil
	case p.at(tokTypeGt, tokTypeGte, tokTypeLt, tokTypeLte, tokTypeAfter, tokTypeBefore):
		return p.parseComparison(ctxModern)
	default:
		return p.parseValue(ctxModern)
	}
}

// parseComparison parses a comparison operator and its value.
func (p *parser) parseComparison(ctx valueCtx) (ast.Node, error) {
	op := p.next()
	p.skipWS()
	v, err := p.parseSingleValue(ctx)
	if err != nil {
		return nil, err
	}
	switch op.typ {
	case tokTypeGt, tokTypeAfter:
		return &ast.GreaterOp{Op: v}, nil
	case tokTypeGte:
		return &ast.GreaterEqualOp{Op: v}, nil
	case tokTypeLt, tokTypeBefore:
		return &ast.LowerOp{Op: v}, nil
	default: // tokTypeLte
		return &ast.LowerEqualOp{Op: v}, nil
	}
}

// ---- values

// parseValue: `value := range | single_quoted | double_quoted |
// regex_quoted | simple_value`.
func (p *parser) parseValue(ctx valueCtx) (ast.Node, error) {
	low, err := p.parseSingleValue(ctx)
	if err != nil {
		return nil, err
	}
	return p.maybeRange(low, ctx)
}

// maybeRange extends low into a `low->high` range when an arrow follows.
func (p *parser) maybeRange(low ast.Node, ctx valueCtx) (ast.Node, error) {
	mark := p.pos
	p.skipWS()
	if !p.at(tokTypeArrow) {
		p.pos = mark
		return low, nil
	}
	arrow := p.cur()
	if !rangeEndpointOK(low) {
		return nil, p.syntaxErrf(arrow, "range endpoint must be a plain or double-quoted value")
	}
	p.next()
	p.skipWS()
	high, err := p.parseSingleValue(ctx)
	if err != nil {
		return nil, err
	}
	if !rangeEndpointOK(high) {
		return nil, p.syntaxErrf(arrow, "range endpoint must be a plain or double-quoted value")
	}
	return &ast.RangeOp{Low: low, High: high}, nil
}

func rangeEndpointOK(n ast.Node) bool {
	switch n.(type) {
	case *ast.Value, *ast.DoubleQuotedValue:
		return true
	}
	return false
}

// parseSingleValue parses one quoted or simple value, without looking for a
// range arrow.
func (p *parser) parseSingleValue(ctx valueCtx) (ast.Node, error) {
	switch t := p.cur(); t.typ {
	case tokTypeSingleQuoted:
		p.next()
		return &ast.SingleQuotedValue{Value: t.val[1 : len(t.val)-1]}, nil
	case tokTypeDoubleQuoted:
		p.next()
		return &ast.DoubleQuotedValue{Value: t.val[1 : len(t.val)-1]}, nil
	case tokTypeRegexQuoted:
		p.next()
		return &ast.RegexValue{Value: t.val[1 : len(t.val)-1]}, nil
	}
	if v, ok := p.assembleSimpleValue(ctx); ok {
		return v, nil
	}
	return nil, p.syntaxErrf(p.cur(), "expected a value; got %s", p.cur().typ)
}

// assembleSimpleValue consumes a maximal adjacent run of value units and
// concatenates them byte-wise: `hep`, `-`, `th`, `/`, `0201100` becomes
// `hep-th/0201100`. A parenthesised subrun with no internal whitespace is a
// unit too, preserving identifiers like `U(1)`, `SL(2,Z)` and `e(+)e(-)`.
// The run ends at whitespace (a WS token), at any token that is not a value
// unit, and — in SPIRES context — at an adjacent trailing `+`/`-` that is
// followed by whitespace, `)` or EOF (those become comparisons).
func (p *parser) assembleSimpleValue(ctx valueCtx) (*ast.Value, bool) {
	var sb strings.Builder
	units := 0
loop:
	for {
		t := p.cur()
		switch t.typ {
		case tokTypeWord, tokTypeXWord, tokTypeStar:
			sb.WriteString(t.val)
			p.next()
			units++
		case tokTypeColon:
			if ctx != ctxLegacy {
				break loop
			}
			sb.WriteString(t.val)
			p.next()
			units++
		case tokTypeMinus, tokTypePlus:
			if units == 0 && t.typ == tokTypePlus {
				break loop
			}
			if ctx == ctxLegacy && units > 0 && p.signEndsValue() {
				break loop
			}
			sb.WriteString(t.val)
			p.next()
			units++
		case tokTypeGt, tokTypeGte, tokTypeLt, tokTypeLte:
			if units == 0 {
				break loop
			}
			sb.WriteString(t.val)
			p.next()
			units++
		case tokTypeOpenParen:
			if units == 0 {
				break loop
			}
			inner, ok := p.parenSubrun(ctx)
			if !ok {
				break loop
			}
			sb.WriteString("(")
			sb.WriteString(inner)
			sb.WriteString(")")
			units++
		default:
			break loop
		}
	}
	if units == 0 {
		return nil, false
	}
	return &ast.Value{Value: sb.String()}, true
}

// signEndsValue reports whether the current `+`/`-` token is a trailing
// comparison sign: followed by whitespace, `)` or EOF.
func (p *parser) signEndsValue() bool {
	switch p.peekType(1) {
	case tokTypeWS, tokTypeCloseParen, tokTypeEOF:
		return true
	}
	return false
}

// parenSubrun consumes `( units )` with no internal whitespace, returning
// the inner text. As in the enclosing run, `:` is a unit only in SPIRES
// context. On anything else it restores the position and reports
// failure, so the caller's value run simply ends before the parenthesis.
func (p *parser) parenSubrun(ctx valueCtx) (string, bool) {
	mark := p.pos
	p.next() // consume the '('
	var sb strings.Builder
	for {
		t := p.cur()
		switch t.typ {
		case tokTypeWord, tokTypeXWord, tokTypeStar, tokTypePlus,
			tokTypeMinus, tokTypeColon:
			if t.typ == tokTypeColon && ctx != ctxLegacy {
				p.pos = mark
				return "", false
			}
			sb.WriteString(t.val)
			p.next()
		case tokTypeCloseParen:
			p.next()
			return sb.String(), true
		default:
			p.pos = mark
			return "", false
		}
	}
}

// ---- SPIRES syntax

// parseSpiresOr: SPIRES connective chains associate to the right.
func (p *parser) parseSpiresOr() (ast.Node, error) {
	left, err := p.parseSpiresAnd()
	if err != nil {
		return nil, err
	}
	mark := p.pos
	p.skipWS()
	if !p.at(tokTypeOr, tokTypePipe) {
		p.pos = mark
		return left, nil
	}
	p.next()
	p.skipWS()
	right, err := p.parseSpiresOr()
	if err != nil {
		return nil, err
	}
	return &ast.OrOp{Left: left, Right: right}, nil
}

// parseSpiresAnd parses one clause and, after `and`, `and not`, `+` or `-`,
// recurses on the remainder. `and not` is matched before `and`, and a
// negative connective negates the whole remainder of the chain.
func (p *parser) parseSpiresAnd() (ast.Node, error) {
	left, err := p.parseSpiresNot()
	if err != nil {
		return nil, err
	}
	mark := p.pos
	p.skipWS()
	negated := false
	switch {
	case p.at(tokTypeAnd):
		p.next()
		m2 := p.pos
		if p.skipWS() && p.at(tokTypeNot) {
			p.next()
			negated = true
		} else {
			p.pos = m2
		}
	case p.at(tokTypePlus):
		p.next()
	case p.at(tokTypeMinus), p.at(tokTypeNot):
		p.next()
		negated = true
	default:
		p.pos = mark
		return left, nil
	}
	p.skipWS()
	rest, err := p.parseSpiresAnd()
	if err != nil {
		return nil, err
	}
	if negated {
		rest = &ast.NotOp{Op: rest}
	}
	return &ast.AndOp{Left: left, Right: rest}, nil
}

// parseSpiresNot handles `not`, parenthesised clause groups, and plain
// clauses. A group is wrapped in GroupOp so the canonicalisation pass can
// scope implicit-keyword propagation to it.
func (p *parser) parseSpiresNot() (ast.Node, error) {
	if p.at(tokTypeNot) {
		p.next()
		p.skipWS()
		op, err := p.parseSpiresNot()
		if err != nil {
			return nil, err
		}
		return &ast.NotOp{Op: op}, nil
	}
	if p.at(tokTypeOpenParen) {
		p.next()
		p.skipWS()
		inner, err := p.parseSpiresOr()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if err := p.expect(tokTypeCloseParen, "mismatched parentheses: expected ')'"); err != nil {
			return nil, err
		}
		return &ast.GroupOp{Op: inner}, nil
	}
	return p.parseSpiresClause()
}

// parseSpiresClause parses `[keyword] value-run-or-comparison`. The first
// word is a keyword when more clause material follows it after whitespace;
// a lone run is a bare value whose keyword the canonicalisation pass fills
// in from the clause before it.
func (p *parser) parseSpiresClause() (ast.Node, error) {
	if p.atSpiresComparisonStart() {
		cmp, err := p.parseComparison(ctxLegacy)
		if err != nil {
			return nil, err
		}
		return &ast.ValueQuery{Val: cmp}, nil
	}
	if p.at(tokTypeWord) {
		mark := p.pos
		w := p.next()
		if p.skipWS() {
			switch {
			case p.atSpiresComparisonStart():
				cmp, err := p.parseComparison(ctxLegacy)
				if err != nil {
					return nil, err
				}
				return &ast.SpiresOp{Key: &ast.Keyword{Value: w.val}, Val: cmp}, nil
			case p.at(tokTypeOpenParen):
				// Keyword applied to a parenthesised subquery:
				// `find t (quark or lepton)`.
				p.next()
				p.skipWS()
				inner, err := p.parseSpiresOr()
				if err != nil {
					return nil, err
				}
				p.skipWS()
				if err := p.expect(tokTypeCloseParen, "mismatched parentheses: expected ')'"); err != nil {
					return nil, err
				}
				return &ast.SpiresOp{Key: &ast.Keyword{Value: w.val}, Val: inner}, nil
			case p.atSpiresValueStart():
				val, err := p.parseSpiresValueRun()
				if err != nil {
					return nil, err
				}
				return &ast.SpiresOp{Key: &ast.Keyword{Value: w.val}, Val: val}, nil
			}
		}
		p.pos = mark
	}
	if p.atSpiresValueStart() {
		val, err := p.parseSpiresValueRun()
		if err != nil {
			return nil, err
		}
		return &ast.ValueQuery{Val: val}, nil
	}
	return nil, p.syntaxErrf(p.cur(), "expected a query clause; got %s", p.cur().typ)
}

func (p *parser) atSpiresComparisonStart() bool {
	return p.at(tokTypeGt, tokTypeGte, tokTypeLt, tokTypeLte,
		tokTypeAfter, tokTypeBefore)
}

func (p *parser) atSpiresValueStart() bool {
	return p.at(tokTypeWord, tokTypeXWord, tokTypeStar,
		tokTypeSingleQuoted, tokTypeDoubleQuoted, tokTypeRegexQuoted)
}

// parseSpiresValueRun parses a space-separated run of simple values bound
// to one keyword, up to the next connective. A single element keeps its own
// node; several words are joined into one double-quoted phrase, which is
// how `find a l everett` becomes `author:"l everett"`.
func (p *parser) parseSpiresValueRun() (ast.Node, error) {
	first, err := p.parseSpiresValueElem()
	if err != nil {
		return nil, err
	}
	v, plain := first.(*ast.Value)
	if !plain {
		return first, nil
	}
	parts := []string{v.Value}
	for {
		mark := p.pos
		if !p.skipWS() {
			break
		}
		if !p.at(tokTypeWord, tokTypeXWord, tokTypeStar) {
			p.pos = mark
			break
		}
		elem, err := p.parseSpiresValueElem()
		if err != nil {
			p.pos = mark
			break
		}
		ev, ok := elem.(*ast.Value)
		if !ok {
			p.pos = mark
			break
		}
		parts = append(parts, ev.Value)
	}
	if len(parts) == 1 {
		return v, nil
	}
	return &ast.DoubleQuotedValue{Value: strings.Join(parts, " ")}, nil
}

// parseSpiresValueElem parses one value element: a quoted value, a range,
// a plain value, or a plain value with a trailing comparison sign
// (`200+`, `2014-01-`).
func (p *parser) parseSpiresValueElem() (ast.Node, error) {
	switch p.cur().typ {
	case tokTypeSingleQuoted, tokTypeDoubleQuoted, tokTypeRegexQuoted:
		return p.parseSingleValue(ctxLegacy)
	}
	v, ok := p.assembleSimpleValue(ctxLegacy)
	if !ok {
		return nil, p.syntaxErrf(p.cur(), "expected a value; got %s", p.cur().typ)
	}
	node, err := p.maybeRange(v, ctxLegacy)
	if err != nil {
		return nil, err
	}
	if node != ast.Node(v) {
		return node, nil
	}
	// The assembler stops on an adjacent trailing sign; it is only a
	// comparison when whitespace, ')' or EOF follows.
	if p.at(tokTypePlus, tokTypeMinus) && p.signEndsValue() {
		sign := p.next()
		if sign.typ == tokTypePlus {
			return &ast.GreaterEqualOp{Op: v}, nil
		}
		return &ast.LowerEqualOp{Op: v}, nil
	}
	return v, nil
}
