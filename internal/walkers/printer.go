package walkers

// The printer pass: a deterministic serialiser to the canonical textual
// form. Printing a canonical tree and reparsing the output yields an equal
// tree, and printing is idempotent over that round trip.

import "github.com/bibql/go-bibql/internal/ast"

// Printer renders a tree to its canonical textual form.
type Printer struct{}

// Name implements Pass.
func (p *Printer) Name() string { return "print" }

// Render implements RenderPass.
func (p *Printer) Render(n ast.Node) (string, error) {
	return ast.Walk[string](printRun{}, n)
}

// printRun is the Walker behind Printer. It is stateless: each handler
// concatenates the already-printed children.
type printRun struct{}

func (printRun) And(n *ast.AndOp, left, right string) (string, error) {
	return "(" + left + " and " + right + ")", nil
}

func (printRun) Or(n *ast.OrOp, left, right string) (string, error) {
	return "(" + left + " or " + right + ")", nil
}

func (printRun) Not(n *ast.NotOp, op string) (string, error) {
	return "(not " + op + ")", nil
}

func (printRun) Group(n *ast.GroupOp, op string) (string, error) {
	return "(" + op + ")", nil
}

func (printRun) KeywordQuery(n *ast.KeywordOp, key, val string) (string, error) {
	return key + ":" + val, nil
}

// SpiresQuery prints in the source syntax. This only appears on trees that
// have not been canonicalised; it is for debugging, and does not reparse
// (`find` has no meaning mid-query).
func (printRun) SpiresQuery(n *ast.SpiresOp, key, val string) (string, error) {
	return "find " + key + " " + val, nil
}

func (printRun) ValueQuery(n *ast.ValueQuery, val string) (string, error) {
	return val, nil
}

func (printRun) Range(n *ast.RangeOp, low, high string) (string, error) {
	return low + "->" + high, nil
}

func (printRun) Greater(n *ast.GreaterOp, op string) (string, error) {
	return ">" + op, nil
}

func (printRun) GreaterEqual(n *ast.GreaterEqualOp, op string) (string, error) {
	return ">=" + op, nil
}

func (printRun) Lower(n *ast.LowerOp, op string) (string, error) {
	return "<" + op, nil
}

func (printRun) LowerEqual(n *ast.LowerEqualOp, op string) (string, error) {
	return "<=" + op, nil
}

func (printRun) Keyword(n *ast.Keyword) (string, error) {
	return n.Value, nil
}

func (printRun) Value(n *ast.Value) (string, error) {
	return n.Value, nil
}

func (printRun) SingleQuoted(n *ast.SingleQuotedValue) (string, error) {
	return "'" + n.Value + "'", nil
}

func (printRun) DoubleQuoted(n *ast.DoubleQuotedValue) (string, error) {
	return `"` + n.Value + `"`, nil
}

func (printRun) Regex(n *ast.RegexValue) (string, error) {
	return "/" + n.Value + "/", nil
}

func (printRun) Empty(n *ast.EmptyQuery) (string, error) {
	return "", nil
}
