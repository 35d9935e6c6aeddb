package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// usesVar reports whether name is referenced anywhere under n.
func usesVar(n exast.Node, name string) bool {
	found := false
	exast.Walk(n, func(c exast.Node) {
		if v, ok := c.(*exast.Var); ok && v.Name == name {
			found = true
		}
	})
	return found
}

// substituteVar replaces every reference to name under n with repl.
func substituteVar(n exast.Node, name string, repl exast.Node) exast.Node {
	return exast.Rewrite(n, func(c exast.Node) exast.Node {
		if v, ok := c.(*exast.Var); ok && v.Name == name {
			return repl
		}
		return c
	})
}

// matchToVar returns the Match's left-hand variable, or nil when the
// left-hand side is not a plain variable.
func matchToVar(n exast.Node) (*exast.Match, *exast.Var) {
	m, ok := n.(*exast.Match)
	if !ok {
		return nil, nil
	}
	v, ok := m.LHS.(*exast.Var)
	if !ok {
		return nil, nil
	}
	return m, v
}

// isNilLit reports whether n is the nil literal.
func isNilLit(n exast.Node) bool {
	_, ok := n.(*exast.NilLit)
	return ok
}

// singleStmt unwraps a one-statement block; other nodes pass through.
func singleStmt(n exast.Node) exast.Node {
	if b, ok := n.(*exast.Block); ok && len(b.Exprs) == 1 {
		return b.Exprs[0]
	}
	return n
}
