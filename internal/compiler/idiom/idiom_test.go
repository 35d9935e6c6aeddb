package idiom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/idiom"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// testCtx lowers locals and idents to bare Vars and leaves names alone,
// enough to observe the transformed shapes.
func testCtx() *idiom.Context {
	var lower func(typed.Expr) exast.Node
	lower = func(e typed.Expr) exast.Node {
		switch x := e.(type) {
		case *typed.Local:
			v := &exast.Var{Name: x.Name}
			v.SetMeta(exast.Meta{}.With(exast.KeyLocalID, x.ID))
			return v
		case *typed.Ident:
			return &exast.Var{Name: x.Name}
		case *typed.Const:
			if x.Kind == typed.ConstNull {
				return &exast.NilLit{}
			}
			return &exast.IntLit{Value: x.Int}
		case *typed.Field:
			return &exast.FieldAccess{Object: lower(x.Object), Field: x.Name}
		case *typed.Binop:
			return &exast.Binop{Op: exast.OpEq, L: lower(x.L), R: lower(x.R)}
		default:
			return &exast.RawCode{Code: "?"}
		}
	}
	return &idiom.Context{
		Lower:  lower,
		Rename: func(s string) string { return s },
	}
}

func local(name string, id int) *typed.Local { return &typed.Local{Name: name, ID: id} }

func nullConst() *typed.Const { return &typed.Const{Kind: typed.ConstNull} }

func notNull(id int) *typed.Binop {
	return &typed.Binop{Op: typed.OpNotEq, L: local("tmp", id), R: nullConst()}
}

func TestExtractNullCoalesce(t *testing.T) {
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "tmp", ID: 1, Init: &typed.Ident{Name: "a"}},
		&typed.If{
			Cond:    notNull(1),
			Then:    local("tmp", 1),
			Else:    &typed.Ident{Name: "fallback"},
			Ternary: true,
		},
	}}

	require.True(t, idiom.IsNullCoalesce(e))
	f, ok := idiom.ExtractNullCoalesce(e)
	require.True(t, ok)
	assert.Equal(t, "tmp", f.TmpName)
	assert.Equal(t, 1, f.TmpID)

	out := idiom.TransformNullCoalesce(f, testCtx()).(*exast.Case)
	assert.Equal(t, "a", out.Subject.(*exast.Var).Name)
	require.Len(t, out.Clauses, 2)
	assert.IsType(t, &exast.NilLit{}, out.Clauses[0].Pattern.(*exast.PLiteral).Lit)
	assert.Equal(t, "fallback", out.Clauses[0].Body.(*exast.Var).Name)
	assert.Equal(t, "tmp", out.Clauses[1].Pattern.(*exast.PVar).Name)
	assert.Equal(t, "tmp", out.Clauses[1].Body.(*exast.Var).Name)
}

func TestNullCoalesceRequiresBareTemporary(t *testing.T) {
	// then-branch uses the temporary but is not exactly the temporary:
	// that shape belongs to the accessor idiom
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "tmp", ID: 1, Init: &typed.Ident{Name: "a"}},
		&typed.If{
			Cond: notNull(1),
			Then: &typed.Field{Object: local("tmp", 1), Name: "size"},
			Else: nullConst(),
		},
	}}

	assert.False(t, idiom.IsNullCoalesce(e))
	assert.True(t, idiom.IsInlineAccessor(e))
}

func TestExtractInlineAccessor(t *testing.T) {
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "tmp", ID: 1, Init: &typed.Field{Object: &typed.Ident{Name: "user"}, Name: "address"}},
		&typed.If{
			Cond: notNull(1),
			Then: &typed.Field{Object: local("tmp", 1), Name: "city"},
			Else: nullConst(),
		},
	}}

	f, ok := idiom.ExtractInlineAccessor(e)
	require.True(t, ok)
	assert.Equal(t, "tmp", f.TmpName)

	out := idiom.TransformInlineAccessor(f, testCtx()).(*exast.Case)
	require.Len(t, out.Clauses, 2)
	assert.IsType(t, &exast.NilLit{}, out.Clauses[0].Body)
	access := out.Clauses[1].Body.(*exast.FieldAccess)
	assert.Equal(t, "city", access.Field)
}

func TestInlineAccessorRequiresTemporaryUse(t *testing.T) {
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "tmp", ID: 1, Init: &typed.Ident{Name: "a"}},
		&typed.If{
			Cond: notNull(1),
			Then: &typed.Ident{Name: "unrelated"},
			Else: nullConst(),
		},
	}}

	assert.False(t, idiom.IsInlineAccessor(e))
}

func TestInlineAccessorRejectsMismatchedTest(t *testing.T) {
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "tmp", ID: 1, Init: &typed.Ident{Name: "a"}},
		&typed.If{
			Cond: &typed.Binop{Op: typed.OpNotEq, L: local("other", 9), R: nullConst()},
			Then: &typed.Field{Object: local("tmp", 1), Name: "city"},
			Else: nullConst(),
		},
	}}

	assert.False(t, idiom.IsInlineAccessor(e))
}

func TestMultiAccessorCompareFallback(t *testing.T) {
	cmp := &typed.Binop{
		Op: typed.OpEq,
		L:  &typed.Field{Object: local("t1", 1), Name: "id"},
		R:  &typed.Field{Object: local("t2", 2), Name: "id"},
	}
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "t1", ID: 1, Init: &typed.Ident{Name: "a"}},
		&typed.VarDecl{Name: "t2", ID: 2, Init: &typed.Ident{Name: "b"}},
		cmp,
	}}

	require.True(t, idiom.IsMultiAccessorCompare(e))

	// the fallback deliberately emits only the comparison
	out := idiom.TransformMultiAccessorFallback(e, testCtx())
	bin, ok := out.(*exast.Binop)
	require.True(t, ok)
	assert.Equal(t, "id", bin.L.(*exast.FieldAccess).Field)
}

func TestMultiAccessorCompareRequiresBothTemporaries(t *testing.T) {
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "t1", ID: 1, Init: &typed.Ident{Name: "a"}},
		&typed.VarDecl{Name: "t2", ID: 2, Init: &typed.Ident{Name: "b"}},
		&typed.Binop{
			Op: typed.OpEq,
			L:  &typed.Field{Object: local("t1", 1), Name: "id"},
			R:  &typed.Const{Kind: typed.ConstInt, Int: 3},
		},
	}}

	assert.False(t, idiom.IsMultiAccessorCompare(e))
}

func unrolledBody(filtered bool) *typed.Block {
	push := typed.Expr(&typed.Call{
		Target: &typed.Field{Object: local("result", 10), Name: "push"},
		Args:   []typed.Expr{local("elem", 3)},
	})
	if filtered {
		push = &typed.If{
			Cond: &typed.Binop{Op: typed.OpGt, L: local("elem", 3), R: &typed.Const{Kind: typed.ConstInt}},
			Then: push,
		}
	}
	return &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "elem", ID: 3, Init: &typed.Index{
			Object: &typed.Ident{Name: "arr"},
			Index:  local("i", 7),
		}},
		&typed.Unop{Op: typed.OpIncrement, Postfix: true, Operand: local("i", 7)},
		push,
	}}
}

func TestExtractUnrolledLoopBody(t *testing.T) {
	f, ok := idiom.ExtractUnrolledLoopBody(unrolledBody(false))
	require.True(t, ok)
	assert.Equal(t, "elem", f.ElemName)
	assert.Equal(t, 7, f.IndexID)
	assert.Nil(t, f.Filter)

	out := idiom.TransformUnrolledLoopBody(f, testCtx()).(*exast.For)
	require.Len(t, out.Generators, 1)
	assert.Equal(t, "elem", out.Generators[0].Pattern.(*exast.PVar).Name)
	assert.Equal(t, "arr", out.Generators[0].Enum.(*exast.Var).Name)
	assert.Empty(t, out.Filters)
}

func TestExtractUnrolledLoopBodyWithFilter(t *testing.T) {
	f, ok := idiom.ExtractUnrolledLoopBody(unrolledBody(true))
	require.True(t, ok)
	require.NotNil(t, f.Filter)

	out := idiom.TransformUnrolledLoopBody(f, testCtx()).(*exast.For)
	assert.Len(t, out.Filters, 1)
}

func TestUnrolledLoopBodyRequiresMatchingIndex(t *testing.T) {
	e := &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "elem", ID: 3, Init: &typed.Index{
			Object: &typed.Ident{Name: "arr"},
			Index:  local("i", 7),
		}},
		&typed.Unop{Op: typed.OpIncrement, Operand: local("j", 8)},
		&typed.Call{
			Target: &typed.Field{Object: local("result", 10), Name: "push"},
			Args:   []typed.Expr{local("elem", 3)},
		},
	}}

	assert.False(t, idiom.IsUnrolledLoopBody(e))
}

func iteratorLoop(kind, kvName string) *typed.Block {
	return &typed.Block{List: []typed.Expr{
		&typed.VarDecl{Name: "it", ID: 5, Init: &typed.Call{
			Target: &typed.Field{Object: &typed.Ident{Name: "coll"}, Name: kind},
		}},
		&typed.While{
			Cond: &typed.Call{Target: &typed.Field{Object: local("it", 5), Name: "hasNext"}},
			Body: &typed.Block{List: []typed.Expr{
				&typed.VarDecl{Name: kvName, ID: 6, Init: &typed.Call{
					Target: &typed.Field{Object: local("it", 5), Name: "next"},
				}},
				&typed.Field{Object: local(kvName, 6), Name: "value"},
			}},
		},
	}}
}

func TestExtractIteratorLoopKeyValue(t *testing.T) {
	f, ok := idiom.ExtractIteratorLoop(iteratorLoop("keyValueIterator", "kv"))
	require.True(t, ok)
	assert.True(t, f.KeyValue)
	assert.Equal(t, "kv", f.KVName)

	out := idiom.TransformIteratorLoop(f, testCtx()).(*exast.For)
	pat := out.Generators[0].Pattern.(*exast.PTuple)
	require.Len(t, pat.Elems, 2)
	assert.Equal(t, "kv_key", pat.Elems[0].(*exast.PVar).Name)
	assert.Equal(t, "kv_value", pat.Elems[1].(*exast.PVar).Name)

	// kv.value accesses rewrote to the bound pattern variable
	found := false
	exast.Walk(out.Body, func(n exast.Node) {
		if v, ok := n.(*exast.Var); ok && v.Name == "kv_value" {
			found = true
		}
	})
	assert.True(t, found)
}

func TestExtractIteratorLoopValueForm(t *testing.T) {
	f, ok := idiom.ExtractIteratorLoop(iteratorLoop("iterator", "kv"))
	require.True(t, ok)
	assert.False(t, f.KeyValue)

	out := idiom.TransformIteratorLoop(f, testCtx()).(*exast.For)
	assert.Equal(t, "kv", out.Generators[0].Pattern.(*exast.PVar).Name)
}

func TestIteratorLoopRewritesRenamedKeyValueBinding(t *testing.T) {
	f, ok := idiom.ExtractIteratorLoop(iteratorLoop("keyValueIterator", "keyValue"))
	require.True(t, ok)

	// the body still says keyValue while the pattern binds the renamed
	// form; the rewrite must bridge the two through the binding id
	ctx := testCtx()
	ctx.Rename = func(s string) string {
		if s == "keyValue" {
			return "key_value"
		}
		return s
	}

	out := idiom.TransformIteratorLoop(f, ctx).(*exast.For)
	pat := out.Generators[0].Pattern.(*exast.PTuple)
	assert.Equal(t, "key_value_key", pat.Elems[0].(*exast.PVar).Name)
	assert.Equal(t, "key_value_value", pat.Elems[1].(*exast.PVar).Name)

	rewritten := false
	exast.Walk(out.Body, func(n exast.Node) {
		if v, ok := n.(*exast.Var); ok && v.Name == "key_value_value" {
			rewritten = true
		}
		if fa, ok := n.(*exast.FieldAccess); ok {
			if obj, ok := fa.Object.(*exast.Var); ok {
				assert.NotEqual(t, "keyValue", obj.Name, "field access left unrewritten")
			}
		}
	})
	assert.True(t, rewritten)
}

func TestIteratorLoopRejectsLeakedIterator(t *testing.T) {
	loop := iteratorLoop("iterator", "kv")
	body := loop.List[1].(*typed.While).Body.(*typed.Block)
	body.List = append(body.List, &typed.Call{
		Target: &typed.Field{Object: local("it", 5), Name: "reset"},
	})

	assert.False(t, idiom.IsIteratorLoop(loop))
}
