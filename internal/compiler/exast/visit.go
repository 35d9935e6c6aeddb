package exast

import "github.com/exalt-lang/exalt/exerr"

// Visit calls fn on every direct structural child of n, non-recursively.
// Child expressions reachable through clause structs and through pattern
// positions (pinned expressions, pattern literals, bit-string segment
// sizes) are direct children for this purpose. Analysis passes that need
// deeper inspection recurse by calling Visit again from fn.
func Visit(n Node, fn func(Node)) {
	visit := func(c Node) {
		if c != nil {
			fn(c)
		}
	}
	visitAll := func(cs []Node) {
		for _, c := range cs {
			visit(c)
		}
	}
	visitClauses := func(cs []*CaseClause) {
		for _, c := range cs {
			visitPattern(c.Pattern, visit)
			visit(c.Guard)
			visit(c.Body)
		}
	}

	switch x := n.(type) {
	case *Module:
		visitAll(x.Body)
	case *Def:
		for _, p := range x.Params {
			visitPattern(p, visit)
		}
		visit(x.Guard)
		visit(x.Body)
	case *Alias:
	case *Attribute:
		visit(x.Value)
	case *Block:
		visitAll(x.Exprs)
	case *If:
		visit(x.Cond)
		visit(x.Then)
		visit(x.Else)
	case *Case:
		visit(x.Subject)
		visitClauses(x.Clauses)
	case *Cond:
		for _, c := range x.Clauses {
			visit(c.Cond)
			visit(c.Body)
		}
	case *Try:
		visit(x.Body)
		visitClauses(x.Rescue)
		visitClauses(x.Catch)
		visitClauses(x.Else)
		visit(x.After)
	case *With:
		for _, c := range x.Clauses {
			visitPattern(c.Pattern, visit)
			visit(c.Expr)
		}
		visit(x.Body)
		visitClauses(x.Else)
	case *Receive:
		visitClauses(x.Clauses)
		visit(x.AfterTimeout)
		visit(x.AfterBody)
	case *For:
		for _, g := range x.Generators {
			visitPattern(g.Pattern, visit)
			visit(g.Enum)
		}
		visitAll(x.Filters)
		visit(x.Into)
		visit(x.Body)
	case *While:
		visit(x.Cond)
		visit(x.Body)
	case *List:
		visitAll(x.Elems)
	case *Tuple:
		visitAll(x.Elems)
	case *MapLit:
		for _, p := range x.Pairs {
			visit(p.Key)
			visit(p.Value)
		}
	case *KeywordList:
		for _, p := range x.Pairs {
			visit(p.Value)
		}
	case *StructLit:
		visit(x.Update)
		for _, p := range x.Pairs {
			visit(p.Value)
		}
	case *Bitstring:
		for _, s := range x.Segs {
			visit(s.Value)
			visit(s.Size)
		}
	case *Call:
		visitAll(x.Args)
	case *RemoteCall:
		visitAll(x.Args)
	case *MethodCall:
		visit(x.Object)
		visitAll(x.Args)
	case *Binop:
		visit(x.L)
		visit(x.R)
	case *Unop:
		visit(x.Operand)
	case *FieldAccess:
		visit(x.Object)
	case *IndexAccess:
		visit(x.Object)
		visit(x.Index)
	case *FieldSet:
		visit(x.Object)
		visit(x.Value)
	case *Range:
		visit(x.From)
		visit(x.To)
	case *Pipe:
		visit(x.L)
		visit(x.R)
	case *Match:
		visit(x.LHS)
		visit(x.RHS)
	case *Fn:
		for _, c := range x.Clauses {
			for _, p := range c.Params {
				visitPattern(p, visit)
			}
			visit(c.Guard)
			visit(c.Body)
		}
	case *Var, *Atom, *IntLit, *FloatLit, *StringLit, *BoolLit, *NilLit, *Underscore, *RawCode:
	default:
		exerr.Defect("exast", "Visit: unhandled node %T", n)
	}
}

func visitPattern(p Pattern, visit func(Node)) {
	switch x := p.(type) {
	case nil:
	case *PVar, *PWildcard:
	case *PLiteral:
		visit(x.Lit)
	case *PTuple:
		for _, e := range x.Elems {
			visitPattern(e, visit)
		}
	case *PList:
		for _, e := range x.Elems {
			visitPattern(e, visit)
		}
	case *PCons:
		visitPattern(x.Head, visit)
		visitPattern(x.Tail, visit)
	case *PMap:
		for _, e := range x.Entries {
			visit(e.Key)
			visitPattern(e.Value, visit)
		}
	case *PStruct:
		for _, e := range x.Entries {
			visit(e.Key)
			visitPattern(e.Value, visit)
		}
	case *PPin:
		visit(x.Expr)
	case *PBitstringSeg:
		for _, s := range x.Segs {
			visit(s.Value)
			visit(s.Size)
		}
	default:
		exerr.Defect("exast", "visitPattern: unhandled pattern %T", p)
	}
}

// Walk applies fn to n and every node beneath it, top-down. It is the
// recursive closure of Visit for analysis passes.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	Visit(n, func(c Node) {
		Walk(c, fn)
	})
}
