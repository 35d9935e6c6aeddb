package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// collapseTempBinds folds two-statement blocks `tmp = A; B` into B with
// tmp substituted by A, but only where the parent slot is classified as
// expression position: list/tuple elements, map/struct/keyword values,
// call and remote-call arguments, binary operands, and match right-hand
// sides. Case-clause bodies, function bodies, bare block statements and
// if-branches keep the block verbatim, where a single expression is not
// required and the substitution could turn a statement sequence into an
// assignment-in-expression.
func collapseTempBinds(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		switch x := n.(type) {
		case *exast.List:
			elems, changed := collapseAll(x.Elems)
			if !changed {
				return n
			}
			nn := &exast.List{Elems: elems}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.Tuple:
			elems, changed := collapseAll(x.Elems)
			if !changed {
				return n
			}
			nn := &exast.Tuple{Elems: elems}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.MapLit:
			changed := false
			pairs := make([]exast.Pair, len(x.Pairs))
			for i, p := range x.Pairs {
				pairs[i] = exast.Pair{Key: p.Key, Value: collapseOne(p.Value, &changed)}
			}
			if !changed {
				return n
			}
			nn := &exast.MapLit{Pairs: pairs}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.KeywordList:
			changed := false
			pairs := collapseKeywordPairs(x.Pairs, &changed)
			if !changed {
				return n
			}
			nn := &exast.KeywordList{Pairs: pairs}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.StructLit:
			changed := false
			pairs := collapseKeywordPairs(x.Pairs, &changed)
			if !changed {
				return n
			}
			nn := &exast.StructLit{Module: x.Module, Update: x.Update, Pairs: pairs}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.Call:
			args, changed := collapseAll(x.Args)
			if !changed {
				return n
			}
			nn := &exast.Call{Name: x.Name, Args: args}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.RemoteCall:
			args, changed := collapseAll(x.Args)
			if !changed {
				return n
			}
			nn := &exast.RemoteCall{Module: x.Module, Name: x.Name, Args: args}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.Binop:
			changed := false
			l := collapseOne(x.L, &changed)
			r := collapseOne(x.R, &changed)
			if !changed {
				return n
			}
			nn := &exast.Binop{Op: x.Op, L: l, R: r}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.Match:
			changed := false
			rhs := collapseOne(x.RHS, &changed)
			if !changed {
				return n
			}
			nn := &exast.Match{LHS: x.LHS, RHS: rhs}
			nn.SetMeta(x.Meta())
			return nn
		}
		return n
	})
}

func collapseKeywordPairs(pairs []exast.KeywordPair, changed *bool) []exast.KeywordPair {
	out := make([]exast.KeywordPair, len(pairs))
	for i, p := range pairs {
		out[i] = exast.KeywordPair{Key: p.Key, Value: collapseOne(p.Value, changed)}
	}
	return out
}

func collapseAll(ns []exast.Node) ([]exast.Node, bool) {
	changed := false
	out := make([]exast.Node, len(ns))
	for i, c := range ns {
		out[i] = collapseOne(c, &changed)
	}
	return out, changed
}

// collapseOne folds a collapsible block in expression position.
func collapseOne(n exast.Node, changed *bool) exast.Node {
	block, ok := n.(*exast.Block)
	if !ok || len(block.Exprs) != 2 {
		return n
	}
	m, v := matchToVar(block.Exprs[0])
	if m == nil {
		return n
	}
	if !usesVar(block.Exprs[1], v.Name) {
		return n
	}
	*changed = true
	return substituteVar(block.Exprs[1], v.Name, m.RHS)
}
