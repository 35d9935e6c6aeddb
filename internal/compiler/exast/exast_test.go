package exast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exalt-lang/exalt/internal/compiler/exast"
)

func TestVisitChildren(t *testing.T) {
	n := &exast.Binop{
		Op: exast.OpAdd,
		L:  &exast.Var{Name: "a"},
		R:  &exast.IntLit{Value: 1},
	}

	var seen []exast.Node
	exast.Visit(n, func(c exast.Node) { seen = append(seen, c) })

	require.Len(t, seen, 2)
	assert.Same(t, n.L, seen[0])
	assert.Same(t, n.R, seen[1])
}

func TestVisitSkipsNilChildren(t *testing.T) {
	n := &exast.If{
		Cond: &exast.BoolLit{Value: true},
		Then: &exast.Var{Name: "x"},
	}

	count := 0
	exast.Visit(n, func(exast.Node) { count++ })
	assert.Equal(t, 2, count)
}

func TestVisitPatternExpressions(t *testing.T) {
	pinned := &exast.Var{Name: "expected"}
	n := &exast.Case{
		Subject: &exast.Var{Name: "x"},
		Clauses: []*exast.CaseClause{
			{Pattern: &exast.PPin{Expr: pinned}, Body: &exast.NilLit{}},
		},
	}

	found := false
	exast.Walk(n, func(c exast.Node) {
		if c == exast.Node(pinned) {
			found = true
		}
	})
	assert.True(t, found)
}

func TestWalkVisitsWholeTree(t *testing.T) {
	n := &exast.Block{Exprs: []exast.Node{
		&exast.Match{LHS: &exast.Var{Name: "a"}, RHS: &exast.IntLit{Value: 1}},
		&exast.Call{Name: "f", Args: []exast.Node{&exast.Var{Name: "a"}}},
	}}

	var names []string
	exast.Walk(n, func(c exast.Node) {
		if v, ok := c.(*exast.Var); ok {
			names = append(names, v.Name)
		}
	})
	assert.Equal(t, []string{"a", "a"}, names)
}

func TestRewriteBottomUp(t *testing.T) {
	n := &exast.Binop{
		Op: exast.OpAdd,
		L:  &exast.Var{Name: "a"},
		R:  &exast.Var{Name: "b"},
	}

	out := exast.Rewrite(n, func(c exast.Node) exast.Node {
		if v, ok := c.(*exast.Var); ok {
			return &exast.Var{Name: v.Name + "_r"}
		}
		return c
	})

	bin, ok := out.(*exast.Binop)
	require.True(t, ok)
	assert.Equal(t, "a_r", bin.L.(*exast.Var).Name)
	assert.Equal(t, "b_r", bin.R.(*exast.Var).Name)
}

func TestRewritePreservesMeta(t *testing.T) {
	inner := &exast.Var{Name: "x"}
	inner.SetMeta(exast.Meta{}.With(exast.KeyLocalID, 7))
	n := &exast.Tuple{Elems: []exast.Node{inner}}
	n.SetMeta(exast.Meta{}.With(exast.KeyInline, true))

	out := exast.Rewrite(n, func(c exast.Node) exast.Node { return c })

	tup, ok := out.(*exast.Tuple)
	require.True(t, ok)
	assert.True(t, tup.Meta().Bool(exast.KeyInline))
	id, ok := tup.Elems[0].Meta().Int(exast.KeyLocalID)
	require.True(t, ok)
	assert.Equal(t, 7, id)
}

func TestRewriteRawCodeOpaque(t *testing.T) {
	raw := &exast.RawCode{Code: "x = nil"}
	n := &exast.Block{Exprs: []exast.Node{raw}}

	calls := 0
	out := exast.Rewrite(n, func(c exast.Node) exast.Node {
		calls++
		if _, ok := c.(*exast.RawCode); ok {
			t.Fatal("rewriter must not see RawCode")
		}
		return c
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, raw, out.(*exast.Block).Exprs[0])
}

func TestRewriteNil(t *testing.T) {
	assert.Nil(t, exast.Rewrite(nil, func(c exast.Node) exast.Node { return c }))
}

func TestRewritePatternExpressions(t *testing.T) {
	n := &exast.Case{
		Subject: &exast.Var{Name: "x"},
		Clauses: []*exast.CaseClause{
			{
				Pattern: &exast.PPin{Expr: &exast.Var{Name: "old"}},
				Body:    &exast.NilLit{},
			},
		},
	}

	out := exast.Rewrite(n, func(c exast.Node) exast.Node {
		if v, ok := c.(*exast.Var); ok && v.Name == "old" {
			return &exast.Var{Name: "new"}
		}
		return c
	})

	pin := out.(*exast.Case).Clauses[0].Pattern.(*exast.PPin)
	assert.Equal(t, "new", pin.Expr.(*exast.Var).Name)
}

func TestMetaWithCopyOnWrite(t *testing.T) {
	base := exast.Meta{}.With(exast.KeyInline, true)
	derived := base.With(exast.KeyUnrolled, true)

	assert.True(t, base.Bool(exast.KeyInline))
	assert.False(t, base.Bool(exast.KeyUnrolled))
	assert.True(t, derived.Bool(exast.KeyInline))
	assert.True(t, derived.Bool(exast.KeyUnrolled))
}

func TestMetaNilTolerant(t *testing.T) {
	var m exast.Meta
	assert.False(t, m.Bool(exast.KeyInline))
	_, ok := m.Int(exast.KeyLocalID)
	assert.False(t, ok)
	assert.Nil(t, m.LocalNames())
	assert.Nil(t, m.Strings(exast.KeyUnusedPrivate))

	derived := m.With(exast.KeyInline, true)
	assert.True(t, derived.Bool(exast.KeyInline))
}
