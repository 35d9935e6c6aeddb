package idiom

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// Inlined accessor expansion: the front-end inlines a null-safe accessor
// into a temporary binding followed by a null-guarding conditional that
// tests exactly that temporary:
//
//	{ var tmp = A; tmp != null ? <expr using tmp> : null }
//
// which lowers to a two-clause case on A.

// AccessorFields are the extracted parts of an inlined accessor.
type AccessorFields struct {
	TmpName string
	TmpID   int
	Init    typed.Expr
	Access  typed.Expr // then-branch, references the temporary
	Else    typed.Expr // nil when the guard falls through to null
}

// IsInlineAccessor reports whether e is an inlined accessor expansion.
func IsInlineAccessor(e typed.Expr) bool {
	_, ok := ExtractInlineAccessor(e)
	return ok
}

// ExtractInlineAccessor returns the accessor fields, or ok=false when the
// shape does not match. It never returns partial results.
func ExtractInlineAccessor(e typed.Expr) (AccessorFields, bool) {
	block, ok := e.(*typed.Block)
	if !ok || len(block.List) != 2 {
		return AccessorFields{}, false
	}
	decl, ok := block.List[0].(*typed.VarDecl)
	if !ok || decl.Init == nil {
		return AccessorFields{}, false
	}
	cond, ok := block.List[1].(*typed.If)
	if !ok {
		return AccessorFields{}, false
	}
	testedID, ok := nullTest(cond.Cond)
	if !ok || testedID != decl.ID {
		return AccessorFields{}, false
	}
	if !refersTo(cond.Then, decl.ID) {
		return AccessorFields{}, false
	}
	if cond.Else != nil && !isNullConst(cond.Else) {
		return AccessorFields{}, false
	}
	return AccessorFields{
		TmpName: decl.Name,
		TmpID:   decl.ID,
		Init:    decl.Init,
		Access:  cond.Then,
		Else:    cond.Else,
	}, true
}

// TransformInlineAccessor lowers the accessor to a case on the receiver:
//
//	case A do
//	  nil -> nil
//	  tmp -> <access>
//	end
func TransformInlineAccessor(f AccessorFields, ctx *Context) exast.Node {
	tmp := ctx.Rename(f.TmpName)
	return &exast.Case{
		Subject: ctx.Lower(f.Init),
		Clauses: []*exast.CaseClause{
			{
				Pattern: &exast.PLiteral{Lit: &exast.NilLit{}},
				Body:    &exast.NilLit{},
			},
			{
				Pattern: &exast.PVar{Name: tmp},
				Body:    ctx.Lower(f.Access),
			},
		},
	}
}

// Two independent inlined accessors combined in one binary comparison:
//
//	{ var tmp1 = A; var tmp2 = B; <cmp using tmp1 and tmp2> }
//
// Full reconstruction of this variant is not attempted. The fallback
// emits only the last sub-expression of the block and discards the
// earlier bindings.

// IsMultiAccessorCompare reports whether e is the two-temporary
// comparison variant.
func IsMultiAccessorCompare(e typed.Expr) bool {
	block, ok := e.(*typed.Block)
	if !ok || len(block.List) != 3 {
		return false
	}
	decl1, ok := block.List[0].(*typed.VarDecl)
	if !ok || decl1.Init == nil {
		return false
	}
	decl2, ok := block.List[1].(*typed.VarDecl)
	if !ok || decl2.Init == nil {
		return false
	}
	cmp, ok := block.List[2].(*typed.Binop)
	if !ok {
		return false
	}
	switch cmp.Op {
	case typed.OpEq, typed.OpNotEq, typed.OpLt, typed.OpLtEq, typed.OpGt, typed.OpGtEq:
	default:
		return false
	}
	return refersTo(cmp, decl1.ID) && refersTo(cmp, decl2.ID)
}

// TransformMultiAccessorFallback emits only the final sub-expression of
// the block. The temporaries' bindings are dropped; their references
// inside the comparison still lower by name.
func TransformMultiAccessorFallback(e typed.Expr, ctx *Context) exast.Node {
	block := e.(*typed.Block)
	return ctx.Lower(block.List[len(block.List)-1])
}
