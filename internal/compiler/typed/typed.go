// Package typed models the fully-typed expression tree the upstream
// front-end hands to the backend. Every node carries its resolved type as
// a plain type name; every binding carries a stable integer id. The
// backend never revalidates types.
package typed

// Expr is a typed expression tree node.
type Expr interface {
	// TypeOf returns the resolved type name of the expression, or "" for
	// statements with no value.
	TypeOf() string
	expr()
}

type base struct {
	Type string
}

func (b base) TypeOf() string { return b.Type }
func (b base) expr()          {}

// ConstKind identifies the kind of a constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
	ConstNull
)

// Const is a literal constant.
type Const struct {
	base
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// Local is a reference to a local binding.
type Local struct {
	base
	Name string
	ID   int
}

// Ident is an unresolved global or intrinsic reference.
type Ident struct {
	base
	Name string
}

// VarDecl declares a local binding, optionally initialized.
type VarDecl struct {
	base
	Name string
	ID   int
	Init Expr // nil when uninitialized
}

// Bind assigns to an lvalue: a Local, Field, or Index expression.
type Bind struct {
	base
	LHS   Expr
	Value Expr
}

// Block is a statement sequence.
type Block struct {
	base
	List []Expr
}

// If is a conditional; Ternary marks value position. Else may be nil.
type If struct {
	base
	Cond    Expr
	Then    Expr
	Else    Expr
	Ternary bool
}

// BinOp identifies a binary operator in the input tree.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpBoolAnd
	OpBoolOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpNullCoal
)

// Binop is a binary operation.
type Binop struct {
	base
	Op BinOp
	L  Expr
	R  Expr
}

// UnOp identifies a unary operator in the input tree.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpBitNot
	OpIncrement
	OpDecrement
)

// Unop is a unary operation; Postfix distinguishes x++ from ++x.
type Unop struct {
	base
	Op      UnOp
	Postfix bool
	Operand Expr
}

// Call invokes Target with Args. Method calls carry a Field target.
type Call struct {
	base
	Target Expr
	Args   []Expr
}

// Field is a field access on an object expression.
type Field struct {
	base
	Object Expr
	Name   string
}

// Index is element access by computed index.
type Index struct {
	base
	Object Expr
	Index  Expr
}

// While is a pre-condition loop.
type While struct {
	base
	Cond Expr
	Body Expr
}

// ArrayDecl is an array literal.
type ArrayDecl struct {
	base
	Elems []Expr
}

// ObjectDecl is an anonymous object literal.
type ObjectDecl struct {
	base
	Fields []ObjectField
}

// ObjectField is one field of an ObjectDecl.
type ObjectField struct {
	Name  string
	Value Expr
}

// New instantiates a class.
type New struct {
	base
	Class string
	Args  []Expr
}

// Return exits the enclosing function; Value may be nil.
type Return struct {
	base
	Value Expr
}

// SwitchCase is one arm of a Switch.
type SwitchCase struct {
	Values []Expr
	Body   Expr
}

// Switch dispatches on a subject; Default may be nil.
type Switch struct {
	base
	Subject Expr
	Cases   []*SwitchCase
	Default Expr
}

// Meta wraps an expression with a front-end hint, e.g. "unrolled" on
// blocks produced by loop unrolling.
type Meta struct {
	base
	Name string
	Expr Expr
}

// Hint names used by the front-end.
const (
	HintUnrolled = "unrolled"
	HintInline   = "inline"
)

// Arg is a function parameter.
type Arg struct {
	Name string
	ID   int
	Type string
}

// Func is a function definition within a unit.
type Func struct {
	Name   string
	Args   []Arg
	Ret    string
	Body   Expr
	Static bool
	Public bool
}

// Unit is one compilation unit: a class lowered to a module.
type Unit struct {
	Name    string
	IsError bool // class represents an exception type
	Funcs   []*Func
}
