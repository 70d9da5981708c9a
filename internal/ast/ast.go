package ast

// The abstract syntax tree for bibliographic search queries.
//
// A query in either surface syntax (modern `field:value` or SPIRES
// `find field value`) parses to a tree of the node types below. Trees are
// immutable once built: walker passes construct fresh trees rather than
// mutating in place, so a tree may be shared freely between goroutines.

import "fmt"

// Node is implemented by every AST variant.
type Node interface {
	// node restricts implementations to this package.
	node()
	// Equal reports deep structural equality with another node.
	Equal(other Node) bool
	// String returns a debug representation, e.g. `AndOp(Keyword(a), Value(b))`.
	String() string
}

// AndOp is a boolean conjunction.
type AndOp struct {
	Left  Node
	Right Node
}

// OrOp is a boolean disjunction.
type OrOp struct {
	Left  Node
	Right Node
}

// NotOp is a boolean negation.
type NotOp struct {
	Op Node
}

// GroupOp marks a parenthesised group in a SPIRES subtree. It exists so the
// canonicalisation pass can scope implicit-keyword propagation to the group;
// canonical trees never contain one. Modern-syntax parentheses are purely
// structural and produce no GroupOp.
type GroupOp struct {
	Op Node
}

// KeywordOp is a modern-syntax `field:value` query. The value side may be a
// plain value, a range or comparison, or a whole subquery for second-order
// keywords such as `refersto`.
type KeywordOp struct {
	Key *Keyword
	Val Node
}

// SpiresOp is a SPIRES-syntax `find field value` clause. The
// canonicalisation pass rewrites every SpiresOp to a KeywordOp.
type SpiresOp struct {
	Key *Keyword
	Val Node
}

// ValueQuery is a bare value with no field, e.g. the `quark` in a plain
// `quark` query.
type ValueQuery struct {
	Val Node
}

// RangeOp is a `low->high` range. Endpoints are *Value or
// *DoubleQuotedValue nodes.
type RangeOp struct {
	Low  Node
	High Node
}

// GreaterOp matches values strictly greater than its operand
// (`> x`, `after x`).
type GreaterOp struct {
	Op Node
}

// GreaterEqualOp matches values greater than or equal to its operand
// (`>= x`, trailing `+`).
type GreaterEqualOp struct {
	Op Node
}

// LowerOp matches values strictly lower than its operand (`< x`, `before x`).
type LowerOp struct {
	Op Node
}

// LowerEqualOp matches values lower than or equal to its operand
// (`<= x`, trailing `-`).
type LowerEqualOp struct {
	Op Node
}

// Keyword is a field identifier.
type Keyword struct {
	Value string
}

// Value is an unquoted value. The text is the byte-wise concatenation of
// the adjacent tokens it was assembled from.
type Value struct {
	Value string
}

// SingleQuotedValue holds the bytes between `'` delimiters, verbatim.
type SingleQuotedValue struct {
	Value string
}

// DoubleQuotedValue holds the bytes between `"` delimiters, verbatim.
type DoubleQuotedValue struct {
	Value string
}

// RegexValue holds the bytes between `/` delimiters, verbatim.
type RegexValue struct {
	Value string
}

// EmptyQuery is the parse of whitespace-only input.
type EmptyQuery struct{}

func (*AndOp) node()             {}
func (*OrOp) node()              {}
func (*NotOp) node()             {}
func (*GroupOp) node()           {}
func (*KeywordOp) node()         {}
func (*SpiresOp) node()          {}
func (*ValueQuery) node()        {}
func (*RangeOp) node()           {}
func (*GreaterOp) node()         {}
func (*GreaterEqualOp) node()    {}
func (*LowerOp) node()           {}
func (*LowerEqualOp) node()      {}
func (*Keyword) node()           {}
func (*Value) node()             {}
func (*SingleQuotedValue) node() {}
func (*DoubleQuotedValue) node() {}
func (*RegexValue) node()        {}
func (*EmptyQuery) node()        {}

func equal2(a1, a2, b1, b2 Node) bool {
	return a1.Equal(b1) && a2.Equal(b2)
}

// Equal implements Node.
func (n *AndOp) Equal(other Node) bool {
	o, ok := other.(*AndOp)
	return ok && equal2(n.Left, n.Right, o.Left, o.Right)
}

// Equal implements Node.
func (n *OrOp) Equal(other Node) bool {
	o, ok := other.(*OrOp)
	return ok && equal2(n.Left, n.Right, o.Left, o.Right)
}

// Equal implements Node.
func (n *NotOp) Equal(other Node) bool {
	o, ok := other.(*NotOp)
	return ok && n.Op.Equal(o.Op)
}

// Equal implements Node.
func (n *GroupOp) Equal(other Node) bool {
	o, ok := other.(*GroupOp)
	return ok && n.Op.Equal(o.Op)
}

// Equal implements Node.
func (n *KeywordOp) Equal(other Node) bool {
	o, ok := other.(*KeywordOp)
	return ok && n.Key.Equal(o.Key) && n.Val.Equal(o.Val)
}

// Equal implements Node.
func (n *SpiresOp) Equal(other Node) bool {
	o, ok := other.(*SpiresOp)
	return ok && n.Key.Equal(o.Key) && n.Val.Equal(o.Val)
}

// Equal implements Node.
func (n *ValueQuery) Equal(other Node) bool {
	o, ok := other.(*ValueQuery)
	return ok && n.Val.Equal(o.Val)
}

// Equal implements Node.
func (n *RangeOp) Equal(other Node) bool {
	o, ok := other.(*RangeOp)
	return ok && equal2(n.Low, n.High, o.Low, o.High)
}

// Equal implements Node.
func (n *GreaterOp) Equal(other Node) bool {
	o, ok := other.(*GreaterOp)
	return ok && n.Op.Equal(o.Op)
}

// Equal implements Node.
func (n *GreaterEqualOp) Equal(other Node) bool {
	o, ok := other.(*GreaterEqualOp)
	return ok && n.Op.Equal(o.Op)
}

// Equal implements Node.
func (n *LowerOp) Equal(other Node) bool {
	o, ok := other.(*LowerOp)
	return ok && n.Op.Equal(o.Op)
}

// Equal implements Node.
func (n *LowerEqualOp) Equal(other Node) bool {
	o, ok := other.(*LowerEqualOp)
	return ok && n.Op.Equal(o.Op)
}

// Equal implements Node.
func (n *Keyword) Equal(other Node) bool {
	o, ok := other.(*Keyword)
	return ok && n.Value == o.Value
}

// Equal implements Node.
func (n *Value) Equal(other Node) bool {
	o, ok := other.(*Value)
	return ok && n.Value == o.Value
}

// Equal implements Node.
func (n *SingleQuotedValue) Equal(other Node) bool {
	o, ok := other.(*SingleQuotedValue)
	return ok && n.Value == o.Value
}

// Equal implements Node.
func (n *DoubleQuotedValue) Equal(other Node) bool {
	o, ok := other.(*DoubleQuotedValue)
	return ok && n.Value == o.Value
}

// Equal implements Node.
func (n *RegexValue) Equal(other Node) bool {
	o, ok := other.(*RegexValue)
	return ok && n.Value == o.Value
}

// Equal implements Node.
func (n *EmptyQuery) Equal(other Node) bool {
	_, ok := other.(*EmptyQuery)
	return ok
}

func (n *AndOp) String() string {
	return fmt.Sprintf("AndOp(%s, %s)", n.Left, n.Right)
}

func (n *OrOp) String() string {
	return fmt.Sprintf("OrOp(%s, %s)", n.Left, n.Right)
}

func (n *NotOp) String() string {
	return fmt.Sprintf("NotOp(%s)", n.Op)
}

func (n *GroupOp) String() string {
	return fmt.Sprintf("GroupOp(%s)", n.Op)
}

func (n *KeywordOp) String() string {
	return fmt.Sprintf("KeywordOp(%s, %s)", n.Key, n.Val)
}

func (n *SpiresOp) String() string {
	return fmt.Sprintf("SpiresOp(%s, %s)", n.Key, n.Val)
}

func (n *ValueQuery) String() string {
	return fmt.Sprintf("ValueQuery(%s)", n.Val)
}

func (n *RangeOp) String() string {
	return fmt.Sprintf("RangeOp(%s, %s)", n.Low, n.High)
}

func (n *GreaterOp) String() string {
	return fmt.Sprintf("GreaterOp(%s)", n.Op)
}

func (n *GreaterEqualOp) String() string {
	return fmt.Sprintf("GreaterEqualOp(%s)", n.Op)
}

func (n *LowerOp) String() string {
	return fmt.Sprintf("LowerOp(%s)", n.Op)
}

func (n *LowerEqualOp) String() string {
	return fmt.Sprintf("LowerEqualOp(%s)", n.Op)
}

func (n *Keyword) String() string {
	return fmt.Sprintf("Keyword(%s)", n.Value)
}

func (n *Value) String() string {
	return fmt.Sprintf("Value(%s)", n.Value)
}

func (n *SingleQuotedValue) String() string {
	return fmt.Sprintf("SingleQuotedValue(%s)", n.Value)
}

func (n *DoubleQuotedValue) String() string {
	return fmt.Sprintf("DoubleQuotedValue(%s)", n.Value)
}

func (n *RegexValue) String() string {
	return fmt.Sprintf("RegexValue(%s)", n.Value)
}

func (n *EmptyQuery) String() string {
	return "EmptyQuery()"
}
