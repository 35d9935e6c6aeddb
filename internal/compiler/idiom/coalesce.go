package idiom

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// Null-coalescing expansion: the front-end expands `A ?? B` into a
// temporary binding followed by a null test of that temporary:
//
//	{ var tmp = A; tmp != null ? tmp : B }

// CoalesceFields are the extracted parts of a null-coalescing expansion.
type CoalesceFields struct {
	TmpName string
	TmpID   int
	Init    typed.Expr
	Default typed.Expr
}

// IsNullCoalesce reports whether e is a null-coalescing expansion.
func IsNullCoalesce(e typed.Expr) bool {
	_, ok := ExtractNullCoalesce(e)
	return ok
}

// ExtractNullCoalesce returns the coalesce fields, or ok=false when the
// shape does not match.
func ExtractNullCoalesce(e typed.Expr) (CoalesceFields, bool) {
	block, ok := e.(*typed.Block)
	if !ok || len(block.List) != 2 {
		return CoalesceFields{}, false
	}
	decl, ok := block.List[0].(*typed.VarDecl)
	if !ok || decl.Init == nil {
		return CoalesceFields{}, false
	}
	cond, ok := block.List[1].(*typed.If)
	if !ok || cond.Else == nil {
		return CoalesceFields{}, false
	}
	testedID, ok := nullTest(cond.Cond)
	if !ok || testedID != decl.ID {
		return CoalesceFields{}, false
	}
	// The then-branch must be exactly the temporary itself; anything
	// else is the accessor idiom's territory.
	if !isLocal(cond.Then, decl.ID) {
		return CoalesceFields{}, false
	}
	return CoalesceFields{
		TmpName: decl.Name,
		TmpID:   decl.ID,
		Init:    decl.Init,
		Default: cond.Else,
	}, true
}

// TransformNullCoalesce lowers the coalesce to a case that keeps nil-vs-
// false distinction intact (|| would coalesce false too):
//
//	case A do
//	  nil -> B
//	  tmp -> tmp
//	end
func TransformNullCoalesce(f CoalesceFields, ctx *Context) exast.Node {
	tmp := ctx.Rename(f.TmpName)
	return &exast.Case{
		Subject: ctx.Lower(f.Init),
		Clauses: []*exast.CaseClause{
			{
				Pattern: &exast.PLiteral{Lit: &exast.NilLit{}},
				Body:    ctx.Lower(f.Default),
			},
			{
				Pattern: &exast.PVar{Name: tmp},
				Body:    &exast.Var{Name: tmp},
			},
		},
	}
}
