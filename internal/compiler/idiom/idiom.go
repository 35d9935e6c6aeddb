// Package idiom recognizes mechanically-generated idioms in the input
// typed tree. Each idiom is a predicate/extractor/transformer triple:
// Is* is a pure guard over a small fixed-depth subtree, Extract* returns
// the idiom's fields (never partially), and Transform* builds the
// idiomatic target-language shape. A predicate returning true guarantees
// the paired extractor succeeds; the builder escalates any disagreement
// as an internal defect.
package idiom

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// Context supplies the collaborator callbacks idiom transformers need:
// recursive lowering of sub-expressions and source-to-target identifier
// naming. Both come from the builder stage.
type Context struct {
	Lower  func(typed.Expr) exast.Node
	Rename func(string) string
}

// isNullConst reports whether e is the null literal.
func isNullConst(e typed.Expr) bool {
	c, ok := e.(*typed.Const)
	return ok && c.Kind == typed.ConstNull
}

// isLocal reports whether e references the binding with the given id.
func isLocal(e typed.Expr, id int) bool {
	l, ok := e.(*typed.Local)
	return ok && l.ID == id
}

// refersTo reports whether the binding id is referenced anywhere in e.
func refersTo(e typed.Expr, id int) bool {
	if e == nil {
		return false
	}
	switch x := e.(type) {
	case *typed.Const, *typed.Ident:
		return false
	case *typed.Local:
		return x.ID == id
	case *typed.VarDecl:
		return refersTo(x.Init, id)
	case *typed.Bind:
		return refersTo(x.LHS, id) || refersTo(x.Value, id)
	case *typed.Block:
		for _, s := range x.List {
			if refersTo(s, id) {
				return true
			}
		}
		return false
	case *typed.If:
		return refersTo(x.Cond, id) || refersTo(x.Then, id) || refersTo(x.Else, id)
	case *typed.Binop:
		return refersTo(x.L, id) || refersTo(x.R, id)
	case *typed.Unop:
		return refersTo(x.Operand, id)
	case *typed.Call:
		if refersTo(x.Target, id) {
			return true
		}
		for _, a := range x.Args {
			if refersTo(a, id) {
				return true
			}
		}
		return false
	case *typed.Field:
		return refersTo(x.Object, id)
	case *typed.Index:
		return refersTo(x.Object, id) || refersTo(x.Index, id)
	case *typed.While:
		return refersTo(x.Cond, id) || refersTo(x.Body, id)
	case *typed.ArrayDecl:
		for _, e := range x.Elems {
			if refersTo(e, id) {
				return true
			}
		}
		return false
	case *typed.ObjectDecl:
		for _, f := range x.Fields {
			if refersTo(f.Value, id) {
				return true
			}
		}
		return false
	case *typed.New:
		for _, a := range x.Args {
			if refersTo(a, id) {
				return true
			}
		}
		return false
	case *typed.Return:
		return refersTo(x.Value, id)
	case *typed.Switch:
		if refersTo(x.Subject, id) || refersTo(x.Default, id) {
			return true
		}
		for _, c := range x.Cases {
			if refersTo(c.Body, id) {
				return true
			}
			for _, v := range c.Values {
				if refersTo(v, id) {
					return true
				}
			}
		}
		return false
	case *typed.Meta:
		return refersTo(x.Expr, id)
	default:
		return false
	}
}

// nullTest matches `local != null` in either operand order and returns
// the tested binding id.
func nullTest(cond typed.Expr) (int, bool) {
	b, ok := cond.(*typed.Binop)
	if !ok || b.Op != typed.OpNotEq {
		return 0, false
	}
	if l, ok := b.L.(*typed.Local); ok && isNullConst(b.R) {
		return l.ID, true
	}
	if r, ok := b.R.(*typed.Local); ok && isNullConst(b.L) {
		return r.ID, true
	}
	return 0, false
}
