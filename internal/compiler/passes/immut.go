package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// The conventional instance parameter name. Struct updates only fire on
// this receiver; mutation of anything else is left for other passes.
const instanceParam = "this"

// immutableUpdates lowers the surviving mutation idioms into rebindings
// over immutable data: push becomes list concatenation, pop a functional
// delete, increment and decrement become arithmetic rebindings, and a
// field assignment on the instance parameter becomes a structural update
// of the enclosing module's struct.
func immutableUpdates(root exast.Node) exast.Node {
	moduleName := ""
	if mod, ok := root.(*exast.Module); ok {
		moduleName = mod.Name
	}
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		switch x := n.(type) {
		case *exast.FieldSet:
			return rewriteFieldSet(x, moduleName)
		case *exast.MethodCall:
			return rewriteMutatingCall(x, moduleName)
		case *exast.Unop:
			return rewriteStep(x, moduleName)
		}
		return n
	})
}

func structUpdate(moduleName, field string, value exast.Node) *exast.Match {
	return &exast.Match{
		LHS: &exast.Var{Name: instanceParam},
		RHS: &exast.StructLit{
			Module: moduleName,
			Update: &exast.Var{Name: instanceParam},
			Pairs:  []exast.KeywordPair{{Key: field, Value: value}},
		},
	}
}

func rewriteFieldSet(fs *exast.FieldSet, moduleName string) exast.Node {
	recv, ok := fs.Object.(*exast.Var)
	if !ok || recv.Name != instanceParam || moduleName == "" {
		return fs
	}
	return structUpdate(moduleName, fs.Field, fs.Value)
}

func rewriteMutatingCall(mc *exast.MethodCall, moduleName string) exast.Node {
	switch obj := mc.Object.(type) {
	case *exast.Var:
		switch {
		case mc.Name == "push" && len(mc.Args) == 1:
			return &exast.Match{
				LHS: &exast.Var{Name: obj.Name},
				RHS: &exast.Binop{
					Op: exast.OpConcat,
					L:  &exast.Var{Name: obj.Name},
					R:  &exast.List{Elems: []exast.Node{mc.Args[0]}},
				},
			}
		case mc.Name == "pop" && len(mc.Args) == 0:
			return &exast.Match{
				LHS: &exast.Var{Name: obj.Name},
				RHS: &exast.RemoteCall{
					Module: "List",
					Name:   "delete_at",
					Args:   []exast.Node{&exast.Var{Name: obj.Name}, &exast.IntLit{Value: -1}},
				},
			}
		}
	case *exast.FieldAccess:
		recv, ok := obj.Object.(*exast.Var)
		if !ok || recv.Name != instanceParam || moduleName == "" {
			return mc
		}
		if mc.Name == "push" && len(mc.Args) == 1 {
			return structUpdate(moduleName, obj.Field, &exast.Binop{
				Op: exast.OpConcat,
				L:  obj,
				R:  &exast.List{Elems: []exast.Node{mc.Args[0]}},
			})
		}
	}
	return mc
}

func rewriteStep(u *exast.Unop, moduleName string) exast.Node {
	if u.Op != exast.OpInc && u.Op != exast.OpDec {
		return u
	}
	op := exast.OpAdd
	if u.Op == exast.OpDec {
		op = exast.OpSub
	}
	one := &exast.IntLit{Value: 1}
	switch target := u.Operand.(type) {
	case *exast.Var:
		return &exast.Match{
			LHS: &exast.Var{Name: target.Name},
			RHS: &exast.Binop{Op: op, L: &exast.Var{Name: target.Name}, R: one},
		}
	case *exast.FieldAccess:
		recv, ok := target.Object.(*exast.Var)
		if !ok || recv.Name != instanceParam || moduleName == "" {
			return u
		}
		return structUpdate(moduleName, target.Field, &exast.Binop{Op: op, L: target, R: one})
	}
	return u
}
