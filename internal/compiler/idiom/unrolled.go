package idiom

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// Unrolled collection map/filter body: the front-end desugars
// `for (elem in arr) ...` map/filter bodies into index bookkeeping:
//
//	{ var elem = arr[i]; i++; result.push(<expr>) }
//	{ var elem = arr[i]; i++; if (<cond>) result.push(<expr>) }
//
// which lowers to a comprehension over arr with an optional filter.

// LoopBodyFields are the extracted parts of an unrolled map/filter body.
type LoopBodyFields struct {
	ElemName string
	ElemID   int
	Array    typed.Expr
	IndexID  int
	Result   typed.Expr // receiver of the push call
	Elem     typed.Expr // pushed expression
	Filter   typed.Expr // nil for unconditional append
}

// IsUnrolledLoopBody reports whether e is an unrolled map/filter body.
func IsUnrolledLoopBody(e typed.Expr) bool {
	_, ok := ExtractUnrolledLoopBody(e)
	return ok
}

// ExtractUnrolledLoopBody returns the loop body fields, or ok=false when
// the shape does not match.
func ExtractUnrolledLoopBody(e typed.Expr) (LoopBodyFields, bool) {
	block, ok := e.(*typed.Block)
	if !ok || len(block.List) != 3 {
		return LoopBodyFields{}, false
	}

	// elem access by index
	decl, ok := block.List[0].(*typed.VarDecl)
	if !ok || decl.Init == nil {
		return LoopBodyFields{}, false
	}
	access, ok := decl.Init.(*typed.Index)
	if !ok {
		return LoopBodyFields{}, false
	}
	idx, ok := access.Index.(*typed.Local)
	if !ok {
		return LoopBodyFields{}, false
	}

	// index increment
	inc, ok := block.List[1].(*typed.Unop)
	if !ok || inc.Op != typed.OpIncrement || !isLocal(inc.Operand, idx.ID) {
		return LoopBodyFields{}, false
	}

	// conditional or unconditional append
	appendStmt := block.List[2]
	var filter typed.Expr
	if guard, ok := appendStmt.(*typed.If); ok && guard.Else == nil {
		filter = guard.Cond
		appendStmt = guard.Then
	}
	result, elem, ok := pushCall(appendStmt)
	if !ok {
		return LoopBodyFields{}, false
	}

	return LoopBodyFields{
		ElemName: decl.Name,
		ElemID:   decl.ID,
		Array:    access.Object,
		IndexID:  idx.ID,
		Result:   result,
		Elem:     elem,
		Filter:   filter,
	}, true
}

// TransformUnrolledLoopBody lowers the body to a comprehension:
//
//	for elem <- arr, <filter>, do: <expr>
func TransformUnrolledLoopBody(f LoopBodyFields, ctx *Context) exast.Node {
	elem := ctx.Rename(f.ElemName)
	comp := &exast.For{
		Generators: []*exast.Generator{
			{Pattern: &exast.PVar{Name: elem}, Enum: ctx.Lower(f.Array)},
		},
		Body: ctx.Lower(f.Elem),
	}
	if f.Filter != nil {
		comp.Filters = []exast.Node{ctx.Lower(f.Filter)}
	}
	return comp
}

// pushCall matches `recv.push(arg)` and returns the receiver and the
// pushed expression.
func pushCall(e typed.Expr) (recv, arg typed.Expr, ok bool) {
	call, isCall := e.(*typed.Call)
	if !isCall || len(call.Args) != 1 {
		return nil, nil, false
	}
	field, isField := call.Target.(*typed.Field)
	if !isField || field.Name != "push" {
		return nil, nil, false
	}
	return field.Object, call.Args[0], true
}
