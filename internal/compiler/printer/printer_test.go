package printer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/printer"
)

func mustPrint(t *testing.T, n exast.Node) string {
	t.Helper()
	out, err := printer.New(nil).Print(n)
	require.NoError(t, err)
	return out
}

func TestPrintModule(t *testing.T) {
	mod := &exast.Module{
		Name: "Demo",
		Body: []exast.Node{
			&exast.Def{
				Name:   "add",
				Params: []exast.Pattern{&exast.PVar{Name: "a"}, &exast.PVar{Name: "b"}},
				Body: &exast.Binop{
					Op: exast.OpAdd,
					L:  &exast.Var{Name: "a"},
					R:  &exast.Var{Name: "b"},
				},
			},
		},
	}

	want := `defmodule Demo do
  def add(a, b) do
    a + b
  end
end
`
	assert.Equal(t, want, mustPrint(t, mod))
}

func TestPrintPrivateDefWithGuard(t *testing.T) {
	def := &exast.Def{
		Name:    "half",
		Private: true,
		Params:  []exast.Pattern{&exast.PVar{Name: "n"}},
		Guard: &exast.Binop{
			Op: exast.OpGt,
			L:  &exast.Var{Name: "n"},
			R:  &exast.IntLit{Value: 0},
		},
		Body: &exast.Binop{
			Op: exast.OpDiv,
			L:  &exast.Var{Name: "n"},
			R:  &exast.IntLit{Value: 2},
		},
	}

	out := mustPrint(t, def)
	assert.True(t, strings.HasPrefix(out, "defp half(n) when n > 0 do\n"))
}

func TestAtomQuoting(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"valid?", ":valid?"},
		{"save!", ":save!"},
		{"ok", ":ok"},
		{"_private", ":_private"},
		{"My.Module", `:"My.Module"`},
		{"123abc", `:"123abc"`},
		{"", `:""`},
	}
	for _, tt := range tests {
		out := mustPrint(t, &exast.Atom{Name: tt.name})
		assert.Equal(t, tt.want+"\n", out, "atom %q", tt.name)
	}
}

func TestStringEscaping(t *testing.T) {
	out := mustPrint(t, &exast.StringLit{Value: "a\"b\\c\nd\te\rf"})
	assert.Equal(t, `"a\"b\\c\nd\te\rf"`+"\n", out)
}

func TestBitwiseNeverInfix(t *testing.T) {
	band := &exast.Binop{
		Op: exast.OpBitAnd,
		L:  &exast.Var{Name: "a"},
		R:  &exast.Var{Name: "b"},
	}
	out := mustPrint(t, band)
	assert.Equal(t, "Bitwise.band(a, b)\n", out)
	assert.NotContains(t, out, "&")

	tests := []struct {
		op   exast.BinOp
		want string
	}{
		{exast.OpBitOr, "Bitwise.bor(a, b)\n"},
		{exast.OpBitXor, "Bitwise.bxor(a, b)\n"},
		{exast.OpShiftL, "Bitwise.bsl(a, b)\n"},
		{exast.OpShiftR, "Bitwise.bsr(a, b)\n"},
	}
	for _, tt := range tests {
		bin := &exast.Binop{Op: tt.op, L: &exast.Var{Name: "a"}, R: &exast.Var{Name: "b"}}
		assert.Equal(t, tt.want, mustPrint(t, bin))
	}
}

func TestRemainderAsCall(t *testing.T) {
	bin := &exast.Binop{
		Op: exast.OpRem,
		L:  &exast.Var{Name: "a"},
		R:  &exast.IntLit{Value: 2},
	}
	assert.Equal(t, "rem(a, 2)\n", mustPrint(t, bin))
}

func TestSubtractionParenthesizedAsOperand(t *testing.T) {
	n := &exast.Binop{
		Op: exast.OpMul,
		L: &exast.Binop{
			Op: exast.OpSub,
			L:  &exast.Var{Name: "a"},
			R:  &exast.Var{Name: "b"},
		},
		R: &exast.Var{Name: "c"},
	}
	assert.Equal(t, "(a - b) * c\n", mustPrint(t, n))

	top := &exast.Binop{
		Op: exast.OpSub,
		L:  &exast.Var{Name: "a"},
		R:  &exast.Var{Name: "b"},
	}
	assert.Equal(t, "a - b\n", mustPrint(t, top))
}

func TestInlineHintKeepsWideCallInline(t *testing.T) {
	wide := func() *exast.Call {
		return &exast.Call{Name: "combine", Args: []exast.Node{
			&exast.IntLit{Value: 1},
			&exast.IntLit{Value: 2},
			&exast.IntLit{Value: 3},
		}}
	}
	cond := &exast.If{
		Cond: &exast.Var{Name: "ok"},
		Then: wide(),
		Else: &exast.NilLit{},
	}
	assert.Contains(t, mustPrint(t, cond), "if ok do\n", "three arguments force block form")

	hinted := wide()
	hinted.SetMeta(exast.Meta{}.With(exast.KeyInline, true))
	cond = &exast.If{
		Cond: &exast.Var{Name: "ok"},
		Then: hinted,
		Else: &exast.NilLit{},
	}
	assert.Equal(t, "if ok, do: combine(1, 2, 3), else: nil\n", mustPrint(t, cond))
}

func TestIfInlineAndParenthesizedAsValue(t *testing.T) {
	cond := &exast.If{
		Cond: &exast.Var{Name: "c"},
		Then: &exast.IntLit{Value: 1},
		Else: &exast.IntLit{Value: 2},
	}
	assert.Equal(t, "if c, do: 1, else: 2\n", mustPrint(t, cond))

	asArg := &exast.Call{Name: "f", Args: []exast.Node{cond}}
	assert.Equal(t, "f((if c, do: 1, else: 2))\n", mustPrint(t, asArg))

	asOperand := &exast.Binop{Op: exast.OpAdd, L: cond, R: &exast.IntLit{Value: 1}}
	assert.Equal(t, "(if c, do: 1, else: 2) + 1\n", mustPrint(t, asOperand))
}

func TestIfBlockForm(t *testing.T) {
	n := &exast.If{
		Cond: &exast.Var{Name: "c"},
		Then: &exast.Block{Exprs: []exast.Node{
			&exast.Match{LHS: &exast.Var{Name: "a"}, RHS: &exast.IntLit{Value: 1}},
			&exast.Var{Name: "a"},
		}},
		Else: &exast.NilLit{},
	}

	want := `if c do
  a = 1
  a
else
  nil
end
`
	assert.Equal(t, want, mustPrint(t, n))
}

func TestCaseRendering(t *testing.T) {
	n := &exast.Case{
		Subject: &exast.Var{Name: "shape"},
		Clauses: []*exast.CaseClause{
			{
				Pattern: &exast.PTuple{Elems: []exast.Pattern{
					&exast.PLiteral{Lit: &exast.IntLit{Value: 0}},
					&exast.PVar{Name: "r"},
				}},
				Body: &exast.Binop{
					Op: exast.OpMul,
					L:  &exast.Var{Name: "r"},
					R:  &exast.Var{Name: "r"},
				},
			},
			{Pattern: &exast.PWildcard{}, Body: &exast.NilLit{}},
		},
	}

	want := `case shape do
  {0, r} -> r * r
  _ -> nil
end
`
	assert.Equal(t, want, mustPrint(t, n))
}

func TestBlockInValueSlotWrapsAsFunction(t *testing.T) {
	n := &exast.List{Elems: []exast.Node{
		&exast.Block{Exprs: []exast.Node{
			&exast.Match{LHS: &exast.Var{Name: "a"}, RHS: &exast.IntLit{Value: 1}},
			&exast.Var{Name: "a"},
		}},
	}}

	want := `[(fn ->
  a = 1
  a
end).()]
`
	assert.Equal(t, want, mustPrint(t, n))
}

func TestWhileFixedPoint(t *testing.T) {
	n := &exast.While{
		Cond: &exast.Binop{
			Op: exast.OpLt,
			L:  &exast.Var{Name: "i"},
			R:  &exast.IntLit{Value: 3},
		},
		Body: &exast.Match{
			LHS: &exast.Var{Name: "i"},
			RHS: &exast.Binop{Op: exast.OpAdd, L: &exast.Var{Name: "i"}, R: &exast.IntLit{Value: 1}},
		},
	}

	want := `loop_1 = fn loop_1 ->
  if i < 3 do
    i = i + 1
    loop_1.(loop_1)
  else
    :done
  end
end
loop_1.(loop_1)
`
	assert.Equal(t, want, mustPrint(t, n))
}

func TestWhileNamesUniquePerOccurrence(t *testing.T) {
	while := func() *exast.While {
		return &exast.While{
			Cond: &exast.BoolLit{Value: false},
			Body: &exast.NilLit{},
		}
	}
	out := mustPrint(t, &exast.Block{Exprs: []exast.Node{while(), while()}})
	assert.Contains(t, out, "loop_1 = fn loop_1 ->")
	assert.Contains(t, out, "loop_2 = fn loop_2 ->")
}

func TestIndexAccessAsEnumAt(t *testing.T) {
	n := &exast.IndexAccess{
		Object: &exast.Var{Name: "xs"},
		Index:  &exast.IntLit{Value: 2},
	}
	assert.Equal(t, "Enum.at(xs, 2)\n", mustPrint(t, n))
}

func TestStructLiteralAndUpdate(t *testing.T) {
	lit := &exast.StructLit{
		Module: "Point",
		Pairs: []exast.KeywordPair{
			{Key: "x", Value: &exast.IntLit{Value: 1}},
			{Key: "y", Value: &exast.IntLit{Value: 2}},
		},
	}
	assert.Equal(t, "%Point{x: 1, y: 2}\n", mustPrint(t, lit))

	upd := &exast.StructLit{
		Module: "Point",
		Update: &exast.Var{Name: "this"},
		Pairs:  []exast.KeywordPair{{Key: "x", Value: &exast.IntLit{Value: 9}}},
	}
	assert.Equal(t, "%Point{this | x: 9}\n", mustPrint(t, upd))
}

func TestMapLiteralKeyForms(t *testing.T) {
	n := &exast.MapLit{Pairs: []exast.Pair{
		{Key: &exast.Atom{Name: "name"}, Value: &exast.StringLit{Value: "ada"}},
		{Key: &exast.StringLit{Value: "raw key"}, Value: &exast.IntLit{Value: 1}},
	}}
	assert.Equal(t, `%{name: "ada", "raw key" => 1}`+"\n", mustPrint(t, n))
}

func TestComprehensionForms(t *testing.T) {
	inline := &exast.For{
		Generators: []*exast.Generator{{
			Pattern: &exast.PVar{Name: "i"},
			Enum:    &exast.Range{From: &exast.IntLit{Value: 0}, To: &exast.IntLit{Value: 2}},
		}},
		Body: &exast.Var{Name: "i"},
	}
	assert.Equal(t, "for i <- 0..2, do: i\n", mustPrint(t, inline))

	filtered := &exast.For{
		Generators: []*exast.Generator{{
			Pattern: &exast.PVar{Name: "x"},
			Enum:    &exast.Var{Name: "xs"},
		}},
		Filters: []exast.Node{&exast.Binop{
			Op: exast.OpGt,
			L:  &exast.Var{Name: "x"},
			R:  &exast.IntLit{Value: 0},
		}},
		Body: &exast.Var{Name: "x"},
	}
	assert.Equal(t, "for x <- xs, x > 0, do: x\n", mustPrint(t, filtered))
}

func TestAnonymousFunctions(t *testing.T) {
	inline := &exast.Fn{Clauses: []*exast.FnClause{{
		Params: []exast.Pattern{&exast.PVar{Name: "x"}},
		Body: &exast.Binop{
			Op: exast.OpAdd,
			L:  &exast.Var{Name: "x"},
			R:  &exast.IntLit{Value: 1},
		},
	}}}
	assert.Equal(t, "fn x -> x + 1 end\n", mustPrint(t, inline))
}

func TestMethodCallFallbacks(t *testing.T) {
	named := &exast.MethodCall{
		Object: &exast.Var{Name: "obj"},
		Name:   "run",
		Args:   []exast.Node{&exast.IntLit{Value: 1}},
	}
	assert.Equal(t, "obj.run(1)\n", mustPrint(t, named))

	dynamic := &exast.MethodCall{
		Object: &exast.Var{Name: "f"},
		Args:   []exast.Node{&exast.IntLit{Value: 1}},
	}
	assert.Equal(t, "f.(1)\n", mustPrint(t, dynamic))
}

func TestUnknownShapeIsDefect(t *testing.T) {
	_, err := printer.New(nil).Print(&exast.Unop{Op: exast.UnOp(99), Operand: &exast.Var{Name: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[InternalError] printer:")
}

func TestBalancedOutput(t *testing.T) {
	mod := &exast.Module{
		Name: "Shapes",
		Body: []exast.Node{
			&exast.Alias{Directive: "import", Module: "Bitwise"},
			&exast.Def{
				Name:   "area",
				Params: []exast.Pattern{&exast.PVar{Name: "shape"}},
				Body: &exast.Case{
					Subject: &exast.Var{Name: "shape"},
					Clauses: []*exast.CaseClause{
						{
							Pattern: &exast.PTuple{Elems: []exast.Pattern{
								&exast.PLiteral{Lit: &exast.IntLit{Value: 0}},
								&exast.PVar{Name: "r"},
							}},
							Body: &exast.Block{Exprs: []exast.Node{
								&exast.Match{LHS: &exast.Var{Name: "sq"}, RHS: &exast.Binop{
									Op: exast.OpMul,
									L:  &exast.Var{Name: "r"},
									R:  &exast.Var{Name: "r"},
								}},
								&exast.Var{Name: "sq"},
							}},
						},
						{Pattern: &exast.PWildcard{}, Body: &exast.NilLit{}},
					},
				},
			},
		},
	}

	out := mustPrint(t, mod)
	assert.Equal(t, strings.Count(out, "("), strings.Count(out, ")"))
	assert.Equal(t, strings.Count(out, " do\n"), strings.Count(out, "end"))
}
