// Package exast defines the intermediate Elixir AST shared by the pattern
// library, the transformation passes, and the printer. Nodes are immutable
// by convention: passes replace nodes, they never mutate them in place.
package exast

// Node is the intermediate AST unit. The variant set is closed: every
// kind lives in this package and both traversal primitives (Visit,
// Rewrite) and the printer switch over all of them.
type Node interface {
	// Meta returns the node's metadata bag, or nil if it has none.
	Meta() Meta
	// SetMeta replaces the node's metadata bag.
	SetMeta(Meta)
	node()
}

type meta struct {
	M Meta
}

func (b *meta) Meta() Meta     { return b.M }
func (b *meta) SetMeta(m Meta) { b.M = m }
func (b *meta) node()          {}

// BinOp identifies a binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAnd
	OpOr
	OpConcat    // list concatenation ++
	OpStrConcat // binary concatenation <>
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftL
	OpShiftR
)

// UnOp identifies a unary operator. OpInc and OpDec are mechanical
// artifacts of the builder stage; the immutable-updates pass rewrites
// them into rebindings.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpBitNot
	OpInc
	OpDec
)

// Module is a defmodule form.
type Module struct {
	meta
	Name string
	Body []Node
}

// Def is a named function definition, public or private.
type Def struct {
	meta
	Name    string
	Params  []Pattern
	Guard   Node // nil when unguarded
	Body    Node
	Private bool
	Macro   bool
}

// Alias is a module directive: import, require, alias or use.
type Alias struct {
	meta
	Directive string // "import", "require", "alias", "use"
	Module    string
}

// Attribute is a module attribute definition, @name value.
type Attribute struct {
	meta
	Name  string
	Value Node
}

// Block is a sequence of expressions evaluated in order; its value is the
// value of the last expression.
type Block struct {
	meta
	Exprs []Node
}

// If is a two-armed conditional. Else may be nil.
type If struct {
	meta
	Cond Node
	Then Node
	Else Node
}

// CaseClause is one arm of a Case, Try rescue/catch/else list, or Receive.
type CaseClause struct {
	Pattern Pattern
	Guard   Node // nil when unguarded
	Body    Node
}

// Case is a multi-clause pattern match on a subject expression.
type Case struct {
	meta
	Subject Node
	Clauses []*CaseClause
}

// CondClause is one arm of a Cond.
type CondClause struct {
	Cond Node
	Body Node
}

// Cond is a guarded multi-branch conditional.
type Cond struct {
	meta
	Clauses []*CondClause
}

// Try is a try/rescue/catch/else/after form. Any clause list and After may
// be empty/nil.
type Try struct {
	meta
	Body   Node
	Rescue []*CaseClause
	Catch  []*CaseClause
	Else   []*CaseClause
	After  Node
}

// WithClause is one `pattern <- expr` step of a With.
type WithClause struct {
	Pattern Pattern
	Expr    Node
}

// With is a with-chain; Else clauses handle the first non-matching step.
type With struct {
	meta
	Clauses []*WithClause
	Body    Node
	Else    []*CaseClause
}

// Receive is a message-receive form with an optional after timeout.
type Receive struct {
	meta
	Clauses      []*CaseClause
	AfterTimeout Node // nil when no after block
	AfterBody    Node
}

// Generator is one `pattern <- enum` step of a comprehension.
type Generator struct {
	Pattern Pattern
	Enum    Node
}

// For is a comprehension over one or more generators with optional
// filters and collectable target.
type For struct {
	meta
	Generators []*Generator
	Filters    []Node
	Into       Node // nil for the default list collectable
	Body       Node
}

// While is a placeholder loop node. The target language has no while
// statement; the printer lowers it to a self-referential anonymous
// function fixed point.
type While struct {
	meta
	Cond Node
	Body Node
}

// List is a list literal.
type List struct {
	meta
	Elems []Node
}

// Tuple is a tuple literal.
type Tuple struct {
	meta
	Elems []Node
}

// Pair is one key => value entry of a map literal.
type Pair struct {
	Key   Node
	Value Node
}

// MapLit is a map literal.
type MapLit struct {
	meta
	Pairs []Pair
}

// KeywordPair is one atom-keyed entry of a keyword or struct literal.
type KeywordPair struct {
	Key   string
	Value Node
}

// KeywordList is a keyword-list literal.
type KeywordList struct {
	meta
	Pairs []KeywordPair
}

// StructLit is a struct literal %Module{...}, or a structural update
// %Module{update | ...} when Update is non-nil.
type StructLit struct {
	meta
	Module string
	Update Node
	Pairs  []KeywordPair
}

// BitSeg is one segment of a bit-string literal.
type BitSeg struct {
	Value Node
	Size  Node   // nil when unsized
	Type  string // "", "integer", "binary", "utf8", ...
}

// Bitstring is a bit-string literal <<...>>.
type Bitstring struct {
	meta
	Segs []*BitSeg
}

// Call is a local (unqualified) function call.
type Call struct {
	meta
	Name string
	Args []Node
}

// RemoteCall is a module-qualified function call.
type RemoteCall struct {
	meta
	Module string
	Name   string
	Args   []Node
}

// MethodCall is a mechanical artifact of the builder stage: a method
// invocation on an object expression. The mutable-to-immutable pass
// rewrites the known mutating families; anything left over prints as an
// anonymous-function-style dot call.
type MethodCall struct {
	meta
	Object Node
	Name   string
	Args   []Node
}

// Binop is a binary operation.
type Binop struct {
	meta
	Op BinOp
	L  Node
	R  Node
}

// Unop is a unary operation.
type Unop struct {
	meta
	Op      UnOp
	Operand Node
}

// FieldAccess is a dot access on a map or struct value.
type FieldAccess struct {
	meta
	Object Node
	Field  string
}

// IndexAccess is element access by computed index.
type IndexAccess struct {
	meta
	Object Node
	Index  Node
}

// FieldSet is a mechanical artifact of the builder stage: a field
// assignment on an object. The mutable-to-immutable pass rewrites it into
// a struct-update rebinding when the receiver is the conventional
// instance parameter.
type FieldSet struct {
	meta
	Object Node
	Field  string
	Value  Node
}

// Range is an inclusive integer range literal.
type Range struct {
	meta
	From Node
	To   Node
}

// Pipe is the pipe operator.
type Pipe struct {
	meta
	L Node
	R Node
}

// Match is a pattern-match/assignment expression. LHS is a Var for plain
// rebindings, or a destructuring shape (Tuple, List) for multi-bindings.
type Match struct {
	meta
	LHS Node
	RHS Node
}

// FnClause is one guarded clause of an anonymous function.
type FnClause struct {
	Params []Pattern
	Guard  Node
	Body   Node
}

// Fn is an anonymous function with one or more clauses.
type Fn struct {
	meta
	Clauses []*FnClause
}

// Var is a variable reference.
type Var struct {
	meta
	Name string
}

// Atom is a symbolic literal.
type Atom struct {
	meta
	Name string
}

// IntLit is an integer literal.
type IntLit struct {
	meta
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	meta
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	meta
	Value string
}

// BoolLit is a boolean literal.
type BoolLit struct {
	meta
	Value bool
}

// NilLit is the nil literal.
type NilLit struct {
	meta
}

// Underscore is the discard variable.
type Underscore struct {
	meta
}

// RawCode is verbatim target source injected from outside the structured
// AST. Rewrite treats it as opaque and never touches it.
type RawCode struct {
	meta
	Code string
}
