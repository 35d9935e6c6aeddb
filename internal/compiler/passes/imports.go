package passes

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
)

// injectImports prepends `import Bitwise` to any module whose body uses
// a bitwise operator or calls into the Bitwise module. The directive is
// added once; a module that already imports Bitwise is left alone.
func injectImports(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		mod, ok := n.(*exast.Module)
		if !ok {
			return n
		}
		if !usesBitwise(mod) || hasImport(mod, "Bitwise") {
			return n
		}
		body := make([]exast.Node, 0, len(mod.Body)+1)
		body = append(body, &exast.Alias{Directive: "import", Module: "Bitwise"})
		body = append(body, mod.Body...)
		nn := &exast.Module{Name: mod.Name, Body: body}
		nn.SetMeta(mod.Meta())
		return nn
	})
}

func usesBitwise(mod *exast.Module) bool {
	found := false
	exast.Walk(mod, func(n exast.Node) {
		switch x := n.(type) {
		case *exast.Binop:
			switch x.Op {
			case exast.OpBitAnd, exast.OpBitOr, exast.OpBitXor, exast.OpShiftL, exast.OpShiftR:
				found = true
			}
		case *exast.Unop:
			if x.Op == exast.OpBitNot {
				found = true
			}
		case *exast.RemoteCall:
			if x.Module == "Bitwise" {
				found = true
			}
		}
	})
	return found
}

func hasImport(mod *exast.Module, name string) bool {
	for _, n := range mod.Body {
		if a, ok := n.(*exast.Alias); ok && a.Directive == "import" && a.Module == name {
			return true
		}
	}
	return false
}
