package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// resolveLocals replays the builder's id-to-name maps over variable
// references. A subtree root carrying KeyLocalNames has every Var beneath
// it whose recorded source id appears in the map renamed to the mapped
// name; references with no recorded id, or with an id outside the map,
// are untouched.
func resolveLocals(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		locals := n.Meta().LocalNames()
		if locals == nil {
			return n
		}
		return exast.Rewrite(n, func(c exast.Node) exast.Node {
			v, ok := c.(*exast.Var)
			if !ok {
				return c
			}
			id, ok := v.Meta().Int(exast.KeyLocalID)
			if !ok {
				return c
			}
			name, ok := locals[id]
			if !ok || name == v.Name {
				return c
			}
			nn := &exast.Var{Name: name}
			nn.SetMeta(v.Meta())
			return nn
		})
	})
}
