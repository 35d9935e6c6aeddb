package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// liftLiteralEffects hoists assignments and multi-statement blocks out of
// data-literal slots into preceding statements, so that literals contain
// only pure single expressions by the time the printer sees them:
//
//	[a = f(), a]   =>   a = f()
//	                    [a]
//
// Execution order is preserved: hoisted effects run left to right before
// the literal. Nested list literals inside a concatenation's right
// operand are lifted too.
func liftLiteralEffects(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		switch x := n.(type) {
		case *exast.Block:
			var out []exast.Node
			changed := false
			for _, stmt := range x.Exprs {
				pre, lifted := liftEffects(stmt)
				if len(pre) > 0 {
					changed = true
					out = append(out, pre...)
				}
				out = append(out, lifted)
			}
			if !changed {
				return n
			}
			nn := &exast.Block{Exprs: out}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.Def:
			pre, lifted := liftEffects(x.Body)
			if len(pre) == 0 {
				return n
			}
			body := &exast.Block{Exprs: append(pre, lifted)}
			body.SetMeta(x.Body.Meta())
			nn := &exast.Def{
				Name:    x.Name,
				Params:  x.Params,
				Guard:   x.Guard,
				Body:    body,
				Private: x.Private,
				Macro:   x.Macro,
			}
			nn.SetMeta(x.Meta())
			return nn
		}
		return n
	})
}

// liftEffects splits a node into hoisted effect statements and the pure
// remainder.
func liftEffects(n exast.Node) (pre []exast.Node, out exast.Node) {
	switch x := n.(type) {
	case *exast.List:
		elems, pre, changed := liftSlots(x.Elems)
		if !changed {
			return nil, n
		}
		nn := &exast.List{Elems: elems}
		nn.SetMeta(x.Meta())
		return pre, nn
	case *exast.Tuple:
		elems, pre, changed := liftSlots(x.Elems)
		if !changed {
			return nil, n
		}
		nn := &exast.Tuple{Elems: elems}
		nn.SetMeta(x.Meta())
		return pre, nn
	case *exast.MapLit:
		changed := false
		var all []exast.Node
		pairs := make([]exast.Pair, len(x.Pairs))
		for i, p := range x.Pairs {
			pv, value := liftSlot(p.Value)
			if len(pv) > 0 {
				changed = true
				all = append(all, pv...)
			}
			pairs[i] = exast.Pair{Key: p.Key, Value: value}
		}
		if !changed {
			return nil, n
		}
		nn := &exast.MapLit{Pairs: pairs}
		nn.SetMeta(x.Meta())
		return all, nn
	case *exast.KeywordList:
		pairs, pre, changed := liftKeywordSlots(x.Pairs)
		if !changed {
			return nil, n
		}
		nn := &exast.KeywordList{Pairs: pairs}
		nn.SetMeta(x.Meta())
		return pre, nn
	case *exast.StructLit:
		pairs, pre, changed := liftKeywordSlots(x.Pairs)
		if !changed {
			return nil, n
		}
		nn := &exast.StructLit{Module: x.Module, Update: x.Update, Pairs: pairs}
		nn.SetMeta(x.Meta())
		return pre, nn
	case *exast.Match:
		pre, rhs := liftEffects(x.RHS)
		if len(pre) == 0 {
			return nil, n
		}
		nn := &exast.Match{LHS: x.LHS, RHS: rhs}
		nn.SetMeta(x.Meta())
		return pre, nn
	case *exast.Binop:
		if x.Op != exast.OpConcat {
			return nil, n
		}
		preL, l := liftEffects(x.L)
		preR, r := liftEffects(x.R)
		if len(preL) == 0 && len(preR) == 0 {
			return nil, n
		}
		nn := &exast.Binop{Op: x.Op, L: l, R: r}
		nn.SetMeta(x.Meta())
		return append(preL, preR...), nn
	}
	return nil, n
}

func liftSlots(elems []exast.Node) ([]exast.Node, []exast.Node, bool) {
	changed := false
	var pre []exast.Node
	var out []exast.Node
	for i, el := range elems {
		// an assignment element immediately followed by its own variable
		// is the upstream flattening of a single slot: hoist the
		// assignment and drop the redundant slot
		if m, v := matchToVar(el); m != nil && i+1 < len(elems) {
			if next, ok := elems[i+1].(*exast.Var); ok && next.Name == v.Name {
				changed = true
				pre = append(pre, el)
				continue
			}
		}
		p, value := liftSlot(el)
		if len(p) > 0 {
			changed = true
			pre = append(pre, p...)
		}
		out = append(out, value)
	}
	return out, pre, changed
}

func liftKeywordSlots(pairs []exast.KeywordPair) ([]exast.KeywordPair, []exast.Node, bool) {
	changed := false
	var pre []exast.Node
	out := make([]exast.KeywordPair, len(pairs))
	for i, p := range pairs {
		pv, value := liftSlot(p.Value)
		if len(pv) > 0 {
			changed = true
			pre = append(pre, pv...)
		}
		out[i] = exast.KeywordPair{Key: p.Key, Value: value}
	}
	return out, pre, changed
}

// liftSlot turns one literal slot into hoisted statements plus the final
// pure value for the slot.
func liftSlot(el exast.Node) ([]exast.Node, exast.Node) {
	switch x := el.(type) {
	case *exast.Match:
		// the slot keeps the bound variable as its value
		if v, ok := x.LHS.(*exast.Var); ok {
			return []exast.Node{x}, &exast.Var{Name: v.Name}
		}
		return nil, el
	case *exast.Block:
		if len(x.Exprs) < 2 {
			return nil, el
		}
		pre := make([]exast.Node, len(x.Exprs)-1)
		copy(pre, x.Exprs[:len(x.Exprs)-1])
		return pre, x.Exprs[len(x.Exprs)-1]
	default:
		// nested literals lift their own slots
		return liftEffects(el)
	}
}
