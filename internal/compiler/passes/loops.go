package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// rebuildComprehensions reverses upstream loop unrolling. A block marked
// with the unrolled hint and matching
//
//	g = []
//	g = g ++ [e0]
//	...
//	g = g ++ [eN]
//	g
//
// becomes `for i <- 0..N-1, do: i` when the element sequence is exactly
// 0..N-1, and a plain list literal of the elements otherwise. Nested
// list elements get one level of inner reconstruction. Unmarked blocks
// are never touched.
func rebuildComprehensions(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		block, ok := n.(*exast.Block)
		if !ok || !block.Meta().Bool(exast.KeyUnrolled) {
			return n
		}
		elems, ok := unrolledElems(block)
		if !ok {
			return n
		}
		out := reconstructRange(elems)
		if out == nil {
			// not a verbatim integer run; try one level of inner
			// reconstruction, else keep a literal list body
			inner := make([]exast.Node, len(elems))
			for i, el := range elems {
				inner[i] = el
				if lst, ok := el.(*exast.List); ok {
					if comp := reconstructRange(lst.Elems); comp != nil {
						inner[i] = comp
					}
				}
			}
			out = &exast.List{Elems: inner}
		}
		out.SetMeta(block.Meta())
		return out
	})
}

// unrolledElems extracts the appended element per step, or ok=false when
// the block is not an init/append/read accumulator chain.
func unrolledElems(block *exast.Block) ([]exast.Node, bool) {
	if len(block.Exprs) < 3 {
		return nil, false
	}
	m, acc := matchToVar(block.Exprs[0])
	if m == nil {
		return nil, false
	}
	init, ok := m.RHS.(*exast.List)
	if !ok || len(init.Elems) != 0 {
		return nil, false
	}

	last, ok := block.Exprs[len(block.Exprs)-1].(*exast.Var)
	if !ok || last.Name != acc.Name {
		return nil, false
	}

	var elems []exast.Node
	for _, stmt := range block.Exprs[1 : len(block.Exprs)-1] {
		sm, sv := matchToVar(stmt)
		if sm == nil || sv.Name != acc.Name {
			return nil, false
		}
		cat, ok := sm.RHS.(*exast.Binop)
		if !ok || cat.Op != exast.OpConcat {
			return nil, false
		}
		lhs, ok := cat.L.(*exast.Var)
		if !ok || lhs.Name != acc.Name {
			return nil, false
		}
		step, ok := cat.R.(*exast.List)
		if !ok || len(step.Elems) != 1 {
			return nil, false
		}
		elems = append(elems, step.Elems[0])
	}
	return elems, true
}

// reconstructRange rebuilds `for i <- 0..N-1, do: i` from a verbatim
// 0..N-1 integer element sequence, or returns nil.
func reconstructRange(elems []exast.Node) exast.Node {
	if len(elems) == 0 {
		return nil
	}
	for i, el := range elems {
		lit, ok := el.(*exast.IntLit)
		if !ok || lit.Value != int64(i) {
			return nil
		}
	}
	return &exast.For{
		Generators: []*exast.Generator{
			{
				Pattern: &exast.PVar{Name: "i"},
				Enum: &exast.Range{
					From: &exast.IntLit{Value: 0},
					To:   &exast.IntLit{Value: int64(len(elems) - 1)},
				},
			},
		},
		Body: &exast.Var{Name: "i"},
	}
}
