package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// liftCondReassign rewrites a guarded self-referencing reassignment into
// an unconditional rebinding:
//
//	if cond do x = f(x) end   =>   x = if cond do f(x) else x end
//
// It fires only when the if has no else branch and the then branch is
// exactly one assignment to a variable that its own right-hand side
// references.
func liftCondReassign(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		cond, ok := n.(*exast.If)
		if !ok || cond.Else != nil {
			return n
		}
		m, v := matchToVar(singleStmt(cond.Then))
		if m == nil {
			return n
		}
		if !usesVar(m.RHS, v.Name) {
			return n
		}
		lifted := &exast.If{
			Cond: cond.Cond,
			Then: m.RHS,
			Else: &exast.Var{Name: v.Name},
		}
		lifted.SetMeta(cond.Meta())
		out := &exast.Match{LHS: m.LHS, RHS: lifted}
		out.SetMeta(m.Meta())
		return out
	})
}
