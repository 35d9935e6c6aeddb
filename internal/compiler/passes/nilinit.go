package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// dropNilInit deletes `x = nil` initializations that are dead: a later
// statement in the same block rebinds x before anything reads it. A
// second nil assignment defers the decision to the later statement, and
// any read of x (including a rebinding whose right-hand side mentions x,
// or an occurrence buried in control flow) keeps the initialization.
func dropNilInit(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		block, ok := n.(*exast.Block)
		if !ok {
			return n
		}
		var out []exast.Node
		changed := false
		for i, stmt := range block.Exprs {
			if nilInitIsDead(stmt, block.Exprs[i+1:]) {
				changed = true
				continue
			}
			out = append(out, stmt)
		}
		if !changed {
			return n
		}
		nn := &exast.Block{Exprs: out}
		nn.SetMeta(block.Meta())
		return nn
	})
}

func nilInitIsDead(stmt exast.Node, rest []exast.Node) bool {
	m, v := matchToVar(stmt)
	if m == nil || !isNilLit(m.RHS) {
		return false
	}
	for _, s := range rest {
		if rm, rv := matchToVar(s); rm != nil && rv.Name == v.Name {
			if usesVar(rm.RHS, v.Name) {
				return false // the rebinding itself reads x first
			}
			if isNilLit(rm.RHS) {
				continue // still nil; keep looking
			}
			return true
		}
		if usesVar(s, v.Name) {
			return false
		}
	}
	return false
}
