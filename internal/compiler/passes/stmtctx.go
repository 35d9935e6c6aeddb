package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// The functional-update family: calls that return a new immutable value
// which is meaningless to discard. When such a call sits in statement
// position and its first argument is exactly a variable, the result is
// rebound to that variable.
var updateFamily = map[string]map[string]bool{
	"Map":     {"put": true, "delete": true, "merge": true, "update": true, "put_new": true, "drop": true},
	"Keyword": {"put": true, "delete": true, "merge": true},
	"List":    {"insert_at": true, "delete_at": true, "replace_at": true, "update_at": true},
	"String":  {"replace": true, "trim": true, "upcase": true, "downcase": true, "slice": true},
	"Enum":    {"sort": true, "uniq": true, "reverse": true, "concat": true},
}

// bindDiscardedUpdates propagates statement context through the tree and
// rebinds discarded functional updates: all but the last expression of a
// block are statement-context, the last inherits the parent's context,
// and a while body discards every statement's value.
func bindDiscardedUpdates(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		switch x := n.(type) {
		case *exast.Block:
			changed := false
			out := make([]exast.Node, len(x.Exprs))
			copy(out, x.Exprs)
			for i := 0; i < len(out)-1; i++ {
				out[i] = bindDiscarded(out[i], &changed)
			}
			if !changed {
				return n
			}
			nn := &exast.Block{Exprs: out}
			nn.SetMeta(x.Meta())
			return nn
		case *exast.While:
			// the loop body's value is always discarded; earlier block
			// statements were handled when the block itself was rebuilt
			changed := false
			body := bindDiscarded(x.Body, &changed)
			if !changed {
				return n
			}
			nn := &exast.While{Cond: x.Cond, Body: body}
			nn.SetMeta(x.Meta())
			return nn
		}
		return n
	})
}

// bindDiscarded rewrites one statement whose value is discarded. Blocks
// pass the discard down to their final expression (earlier ones were
// already handled), and both arms of a conditional or every clause body
// of a case inherit it.
func bindDiscarded(stmt exast.Node, changed *bool) exast.Node {
	switch x := stmt.(type) {
	case *exast.RemoteCall:
		if !updateFamily[x.Module][x.Name] || len(x.Args) == 0 {
			return stmt
		}
		recv, ok := x.Args[0].(*exast.Var)
		if !ok {
			return stmt
		}
		*changed = true
		return &exast.Match{LHS: &exast.Var{Name: recv.Name}, RHS: x}
	case *exast.Block:
		if len(x.Exprs) == 0 {
			return stmt
		}
		local := false
		last := bindDiscarded(x.Exprs[len(x.Exprs)-1], &local)
		if !local {
			return stmt
		}
		*changed = true
		exprs := make([]exast.Node, len(x.Exprs))
		copy(exprs, x.Exprs)
		exprs[len(exprs)-1] = last
		nn := &exast.Block{Exprs: exprs}
		nn.SetMeta(x.Meta())
		return nn
	case *exast.If:
		local := false
		then := bindDiscarded(x.Then, &local)
		var els exast.Node
		if x.Else != nil {
			els = bindDiscarded(x.Else, &local)
		}
		if !local {
			return stmt
		}
		*changed = true
		nn := &exast.If{Cond: x.Cond, Then: then, Else: els}
		nn.SetMeta(x.Meta())
		return nn
	case *exast.Case:
		local := false
		clauses := make([]*exast.CaseClause, len(x.Clauses))
		for i, c := range x.Clauses {
			clauses[i] = &exast.CaseClause{
				Pattern: c.Pattern,
				Guard:   c.Guard,
				Body:    bindDiscarded(c.Body, &local),
			}
		}
		if !local {
			return stmt
		}
		*changed = true
		nn := &exast.Case{Subject: x.Subject, Clauses: clauses}
		nn.SetMeta(x.Meta())
		return nn
	}
	return stmt
}
