package walkers

// The canonicalisation pass. Two rewrites in one post-order walk over a
// fresh tree:
//
//  1. Implicit-keyword propagation: within a SPIRES subtree, a clause with
//     an explicit keyword establishes it for the bare clauses that follow,
//     in source order, until the next explicit keyword. Parenthesised
//     groups get their own scope: the keyword in force is saved on entry
//     and restored on exit.
//  2. SPIRES → modern rewrite: every `find field value` clause becomes a
//     `field:value` query, with the field name resolved through the alias
//     table. Unknown field names resolve to the table's default field.
//
// After the pass no SpiresOp or GroupOp remains, and the boolean skeleton
// is unchanged apart from the keyword pairing above.

import (
	"github.com/bibql/go-bibql/internal/alias"
	"github.com/bibql/go-bibql/internal/ast"
	"github.com/bibql/go-bibql/internal/lg"
)

// Canonicalizer rewrites SPIRES subtrees into the canonical modern form.
// It is reentrant: each Transform runs with its own propagation state.
type Canonicalizer struct {
	aliases *alias.Table
}

// NewCanonicalizer returns a canonicalise pass using the given alias table.
func NewCanonicalizer(aliases *alias.Table) *Canonicalizer {
	return &Canonicalizer{aliases: aliases}
}

// Name implements Pass.
func (c *Canonicalizer) Name() string { return "canonicalise" }

// Transform implements TransformPass.
func (c *Canonicalizer) Transform(n ast.Node) (ast.Node, error) {
	return ast.Walk[ast.Node](&canonRun{aliases: c.aliases}, n)
}

// canonRun carries the per-Transform state: the implicit keyword currently
// in force, and the stack of keywords saved at group entries. The walk
// visits clauses in source order, which is exactly the order propagation is
// defined over.
type canonRun struct {
	aliases *alias.Table
	current string   // implicit keyword in force; "" for none
	saved   []string // keywords saved at enclosing group entries
}

func (c *canonRun) resolve(name string) string {
	canonical, known := c.aliases.Resolve(name)
	if !known {
		lg.Debugf("unknown legacy field %q, searching %q", name, canonical)
	}
	return canonical
}

// EnterGroup implements ast.GroupScoper: save the keyword in force before
// the group's subtree is walked.
func (c *canonRun) EnterGroup(n *ast.GroupOp) {
	c.saved = append(c.saved, c.current)
}

// Group restores the saved keyword and unwraps the group marker.
func (c *canonRun) Group(n *ast.GroupOp, op ast.Node) (ast.Node, error) {
	c.current = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
	return op, nil
}

// SpiresQuery establishes the clause keyword for the clauses that follow,
// and rewrites to the canonical field.
func (c *canonRun) SpiresQuery(n *ast.SpiresOp, key, val ast.Node) (ast.Node, error) {
	c.current = n.Key.Value
	return &ast.KeywordOp{Key: &ast.Keyword{Value: c.resolve(n.Key.Value)}, Val: val}, nil
}

// ValueQuery pairs a bare clause with the keyword in force. A bare clause
// with no keyword in force (including every bare value in a pure modern
// query) stays bare.
func (c *canonRun) ValueQuery(n *ast.ValueQuery, val ast.Node) (ast.Node, error) {
	if c.current == "" {
		return &ast.ValueQuery{Val: val}, nil
	}
	return &ast.KeywordOp{Key: &ast.Keyword{Value: c.resolve(c.current)}, Val: val}, nil
}

func (c *canonRun) And(n *ast.AndOp, left, right ast.Node) (ast.Node, error) {
	return &ast.AndOp{Left: left, Right: right}, nil
}

func (c *canonRun) Or(n *ast.OrOp, left, right ast.Node) (ast.Node, error) {
	return &ast.OrOp{Left: left, Right: right}, nil
}

func (c *canonRun) Not(n *ast.NotOp, op ast.Node) (ast.Node, error) {
	return &ast.NotOp{Op: op}, nil
}

func (c *canonRun) KeywordQuery(n *ast.KeywordOp, key, val ast.Node) (ast.Node, error) {
	return &ast.KeywordOp{Key: key.(*ast.Keyword), Val: val}, nil
}

func (c *canonRun) Range(n *ast.RangeOp, low, high ast.Node) (ast.Node, error) {
	return &ast.RangeOp{Low: low, High: high}, nil
}

func (c *canonRun) Greater(n *ast.GreaterOp, op ast.Node) (ast.Node, error) {
	return &ast.GreaterOp{Op: op}, nil
}

func (c *canonRun) GreaterEqual(n *ast.GreaterEqualOp, op ast.Node) (ast.Node, error) {
	return &ast.GreaterEqualOp{Op: op}, nil
}

func (c *canonRun) Lower(n *ast.LowerOp, op ast.Node) (ast.Node, error) {
	return &ast.LowerOp{Op: op}, nil
}

func (c *canonRun) LowerEqual(n *ast.LowerEqualOp, op ast.Node) (ast.Node, error) {
	return &ast.LowerEqualOp{Op: op}, nil
}

func (c *canonRun) Keyword(n *ast.Keyword) (ast.Node, error) {
	return &ast.Keyword{Value: n.Value}, nil
}

func (c *canonRun) Value(n *ast.Value) (ast.Node, error) {
	return &ast.Value{Value: n.Value}, nil
}

func (c *canonRun) SingleQuoted(n *ast.SingleQuotedValue) (ast.Node, error) {
	return &ast.SingleQuotedValue{Value: n.Value}, nil
}

func (c *canonRun) DoubleQuoted(n *ast.DoubleQuotedValue) (ast.Node, error) {
	return &ast.DoubleQuotedValue{Value: n.Value}, nil
}

func (c *canonRun) Regex(n *ast.RegexValue) (ast.Node, error) {
	return &ast.RegexValue{Value: n.Value}, nil
}

func (c *canonRun) Empty(n *ast.EmptyQuery) (ast.Node, error) {
	return &ast.EmptyQuery{}, nil
}
