package ast

// A small framework for tree-walking passes.
//
// A pass implements Walker[T] with one method per node variant, so a missing
// handler is a compile error rather than a traversal-time surprise. Walk
// drives a deterministic post-order, left-to-right traversal: each handler
// receives the node plus the already-walked results of its children, which
// makes bottom-up rewrites (T = Node) and renderers (T = string) the same
// shape.
//
// Usage:
//     out, err := ast.Walk[string](printer, tree)

import "fmt"

// Walker is the handler set for a single pass over a tree, producing a T per
// node. Handlers must not mutate the nodes they receive; a pass that needs
// state (e.g. implicit-keyword tracking) keeps it on the Walker value, not
// on the tree.
type Walker[T any] interface {
	And(n *AndOp, left, right T) (T, error)
	Or(n *OrOp, left, right T) (T, error)
	Not(n *NotOp, op T) (T, error)
	Group(n *GroupOp, op T) (T, error)
	KeywordQuery(n *KeywordOp, key, val T) (T, error)
	SpiresQuery(n *SpiresOp, key, val T) (T, error)
	ValueQuery(n *ValueQuery, val T) (T, error)
	Range(n *RangeOp, low, high T) (T, error)
	Greater(n *GreaterOp, op T) (T, error)
	GreaterEqual(n *GreaterEqualOp, op T) (T, error)
	Lower(n *LowerOp, op T) (T, error)
	LowerEqual(n *LowerEqualOp, op T) (T, error)
	Keyword(n *Keyword) (T, error)
	Value(n *Value) (T, error)
	SingleQuoted(n *SingleQuotedValue) (T, error)
	DoubleQuoted(n *DoubleQuotedValue) (T, error)
	Regex(n *RegexValue) (T, error)
	Empty(n *EmptyQuery) (T, error)
}

// GroupScoper is implemented by walkers that keep state scoped to
// parenthesised SPIRES groups. EnterGroup runs before the group's subtree
// is walked; the Group handler runs after it, and is where the walker
// restores whatever EnterGroup saved.
type GroupScoper interface {
	EnterGroup(n *GroupOp)
}

// Walk traverses n post-order, left-to-right, dispatching each node to the
// matching handler of w.
func Walk[T any](w Walker[T], n Node) (T, error) {
	var zero T
	switch n := n.(type) {
	case *AndOp:
		left, err := Walk(w, n.Left)
		if err != nil {
			return zero, err
		}
		right, err := Walk(w, n.Right)
		if err != nil {
			return zero, err
		}
		return w.And(n, left, right)
	case *OrOp:
		left, err := Walk(w, n.Left)
		if err != nil {
			return zero, err
		}
		right, err := Walk(w, n.Right)
		if err != nil {
			return zero, err
		}
		return w.Or(n, left, right)
	case *NotOp:
		op, err := Walk(w, n.Op)
		if err != nil {
			return zero, err
		}
		return w.Not(n, op)
	case *GroupOp:
		if gs, ok := any(w).(GroupScoper); ok {
			gs.EnterGroup(n)
		}
		op, err := Walk(w, n.Op)
		if err != nil {
			return zero, err
		}
		return w.Group(n, op)
	case *KeywordOp:
		key, err := Walk(w, Node(n.Key))
		if err != nil {
			return zero, err
		}
		val, err := Walk(w, n.Val)
		if err != nil {
			return zero, err
		}
		return w.KeywordQuery(n, key, val)
	case *SpiresOp:
		key, err := Walk(w, Node(n.Key))
		if err != nil {
			return zero, err
		}
		val, err := Walk(w, n.Val)
		if err != nil {
			return zero, err
		}
		return w.SpiresQuery(n, key, val)
	case *ValueQuery:
		val, err := Walk(w, n.Val)
		if err != nil {
			return zero, err
		}
		return w.ValueQuery(n, val)
	case *RangeOp:
		low, err := Walk(w, n.Low)
		if err != nil {
			return zero, err
		}
		high, err := Walk(w, n.High)
		if err != nil {
			return zero, err
		}
		return w.Range(n, low, high)
	case *GreaterOp:
		op, err := Walk(w, n.Op)
		if err != nil {
			return zero, err
		}
		return w.Greater(n, op)
	case *GreaterEqualOp:
		op, err := Walk(w, n.Op)
		if err != nil {
			return zero, err
		}
		return w.GreaterEqual(n, op)
	case *LowerOp:
		op, err := Walk(w, n.Op)
		if err != nil {
			return zero, err
		}
		return w.Lower(n, op)
	case *LowerEqualOp:
		op, err := Walk(w, n.Op)
		if err != nil {
			return zero, err
		}
		return w.LowerEqual(n, op)
	case *Keyword:
		return w.Keyword(n)
	case *Value:
		return w.Value(n)
	case *SingleQuotedValue:
		return w.SingleQuoted(n)
	case *DoubleQuotedValue:
		return w.DoubleQuoted(n)
	case *RegexValue:
		return w.Regex(n)
	case *EmptyQuery:
		return w.Empty(n)
	default:
		return zero, fmt.Errorf("ast: cannot walk node type %T", n)
	}
}
