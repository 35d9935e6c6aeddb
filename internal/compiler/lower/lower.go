// Package lower builds the intermediate AST from the input typed tree.
// The idiom library is consulted first at every block boundary; whatever
// it declines is lowered mechanically, leaving the transformation passes
// to idiomatize the result.
package lower

import (
	"github.com/exalt-lang/exalt/exerr"
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/idiom"
	"github.com/exalt-lang/exalt/internal/compiler/names"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// Lowerer converts typed expression trees into intermediate AST nodes.
type Lowerer struct {
	rename func(string) string
	minter *names.Minter
	ctx    *idiom.Context
}

// New creates a Lowerer. rename is the externally-supplied identifier
// naming callback; nil selects DefaultRename. minter supplies fresh names
// for synthesized bindings and must be the compilation unit's minter.
func New(rename func(string) string, minter *names.Minter) *Lowerer {
	if rename == nil {
		rename = DefaultRename
	}
	if minter == nil {
		minter = names.NewMinter()
	}
	l := &Lowerer{rename: rename, minter: minter}
	l.ctx = &idiom.Context{Lower: l.lowerExpr, Rename: rename}
	return l
}

// LowerUnit builds the module node for one compilation unit.
func (l *Lowerer) LowerUnit(u *typed.Unit) (mod *exast.Module, err error) {
	defer exerr.Recover(&err)

	mod = &exast.Module{Name: u.Name}
	if u.IsError {
		mod.SetMeta(exast.Meta{}.With(exast.KeyErrorModule, true))
		mod.Body = append(mod.Body, &exast.Call{
			Name: "defexception",
			Args: []exast.Node{&exast.List{Elems: []exast.Node{&exast.Atom{Name: "message"}}}},
		})
	}

	for _, f := range u.Funcs {
		mod.Body = append(mod.Body, l.lowerFunc(f))
	}

	if unused := l.unusedPrivate(u); len(unused.Pairs) > 0 {
		names := make([]string, len(unused.Pairs))
		for i, p := range unused.Pairs {
			names[i] = p.Key
		}
		attr := &exast.Attribute{
			Name: "compile",
			Value: &exast.Tuple{Elems: []exast.Node{
				&exast.Atom{Name: "nowarn_unused_function"},
				unused,
			}},
		}
		mod.Body = append([]exast.Node{attr}, mod.Body...)
		mod.SetMeta(metaOf(mod).With(exast.KeyUnusedPrivate, names))
	}
	return mod, nil
}

func metaOf(n exast.Node) exast.Meta {
	if m := n.Meta(); m != nil {
		return m
	}
	return exast.Meta{}
}

// unusedPrivate finds private functions never called inside the unit.
func (l *Lowerer) unusedPrivate(u *typed.Unit) *exast.KeywordList {
	called := map[string]bool{}
	var scan func(e typed.Expr)
	scan = func(e typed.Expr) {
		if e == nil {
			return
		}
		if call, ok := e.(*typed.Call); ok {
			if id, ok := call.Target.(*typed.Ident); ok {
				called[l.rename(id.Name)] = true
			}
			if f, ok := call.Target.(*typed.Field); ok {
				called[l.rename(f.Name)] = true
			}
		}
		eachChild(e, scan)
	}
	for _, f := range u.Funcs {
		scan(f.Body)
	}

	out := &exast.KeywordList{}
	for _, f := range u.Funcs {
		if f.Public {
			continue
		}
		name := l.rename(f.Name)
		if !called[name] {
			out.Pairs = append(out.Pairs, exast.KeywordPair{
				Key:   name,
				Value: &exast.IntLit{Value: int64(len(f.Args))},
			})
		}
	}
	return out
}

func (l *Lowerer) lowerFunc(f *typed.Func) *exast.Def {
	params := make([]exast.Pattern, len(f.Args))
	locals := map[int]string{}
	for i, a := range f.Args {
		params[i] = &exast.PVar{Name: l.rename(a.Name)}
		locals[a.ID] = l.rename(a.Name)
	}
	collectLocals(f.Body, l.rename, locals)

	body := l.lowerExpr(f.Body)
	body.SetMeta(metaOf(body).With(exast.KeyLocalNames, locals))

	return &exast.Def{
		Name:    l.rename(f.Name),
		Params:  params,
		Body:    body,
		Private: !f.Public,
	}
}

// collectLocals records every binding declared under e, keyed by its
// stable source id. The resolve-locals pass replays this map over
// variable references.
func collectLocals(e typed.Expr, rename func(string) string, into map[int]string) {
	if e == nil {
		return
	}
	if d, ok := e.(*typed.VarDecl); ok {
		into[d.ID] = rename(d.Name)
	}
	eachChild(e, func(c typed.Expr) {
		collectLocals(c, rename, into)
	})
}

func (l *Lowerer) lowerExpr(e typed.Expr) exast.Node {
	switch x := e.(type) {
	case *typed.Const:
		return lowerConst(x)
	case *typed.Local:
		v := &exast.Var{Name: x.Name}
		v.SetMeta(exast.Meta{}.With(exast.KeyLocalID, x.ID))
		return v
	case *typed.Ident:
		return &exast.Var{Name: l.rename(x.Name)}
	case *typed.VarDecl:
		v := &exast.Var{Name: x.Name}
		v.SetMeta(exast.Meta{}.With(exast.KeyLocalID, x.ID))
		var rhs exast.Node = &exast.NilLit{}
		if x.Init != nil {
			rhs = l.lowerExpr(x.Init)
		}
		return &exast.Match{LHS: v, RHS: rhs}
	case *typed.Bind:
		return l.lowerBind(x)
	case *typed.Block:
		return l.lowerBlock(x)
	case *typed.If:
		out := &exast.If{Cond: l.lowerExpr(x.Cond), Then: l.lowerExpr(x.Then)}
		if x.Else != nil {
			out.Else = l.lowerExpr(x.Else)
		}
		return out
	case *typed.Binop:
		return l.lowerBinop(x)
	case *typed.Unop:
		return &exast.Unop{Op: unOps[x.Op], Operand: l.lowerExpr(x.Operand)}
	case *typed.Call:
		return l.lowerCall(x)
	case *typed.Field:
		return &exast.FieldAccess{Object: l.lowerExpr(x.Object), Field: l.rename(x.Name)}
	case *typed.Index:
		return &exast.IndexAccess{Object: l.lowerExpr(x.Object), Index: l.lowerExpr(x.Index)}
	case *typed.While:
		return &exast.While{Cond: l.lowerExpr(x.Cond), Body: l.lowerExpr(x.Body)}
	case *typed.ArrayDecl:
		elems := make([]exast.Node, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = l.lowerExpr(el)
		}
		return &exast.List{Elems: elems}
	case *typed.ObjectDecl:
		pairs := make([]exast.Pair, len(x.Fields))
		for i, f := range x.Fields {
			pairs[i] = exast.Pair{
				Key:   &exast.Atom{Name: l.rename(f.Name)},
				Value: l.lowerExpr(f.Value),
			}
		}
		return &exast.MapLit{Pairs: pairs}
	case *typed.New:
		args := make([]exast.Node, len(x.Args))
		for i, a := range x.Args {
			args[i] = l.lowerExpr(a)
		}
		return &exast.RemoteCall{Module: x.Class, Name: "new", Args: args}
	case *typed.Return:
		// Early returns are restructured upstream; what survives here is
		// tail position, where the value itself is the return.
		if x.Value == nil {
			return &exast.NilLit{}
		}
		return l.lowerExpr(x.Value)
	case *typed.Switch:
		return l.lowerSwitch(x)
	case *typed.Meta:
		out := l.lowerExpr(x.Expr)
		switch x.Name {
		case typed.HintUnrolled:
			out.SetMeta(metaOf(out).With(exast.KeyUnrolled, true))
		case typed.HintInline:
			out.SetMeta(metaOf(out).With(exast.KeyInline, true))
		}
		return out
	default:
		exerr.Defect("lower", "unhandled typed node %T", e)
		return nil
	}
}

func lowerConst(c *typed.Const) exast.Node {
	switch c.Kind {
	case typed.ConstInt:
		return &exast.IntLit{Value: c.Int}
	case typed.ConstFloat:
		return &exast.FloatLit{Value: c.Float}
	case typed.ConstString:
		return &exast.StringLit{Value: c.Str}
	case typed.ConstBool:
		return &exast.BoolLit{Value: c.Bool}
	case typed.ConstNull:
		return &exast.NilLit{}
	}
	exerr.Defect("lower", "unhandled const kind %d", c.Kind)
	return nil
}

func (l *Lowerer) lowerBind(b *typed.Bind) exast.Node {
	switch lhs := b.LHS.(type) {
	case *typed.Local:
		v := &exast.Var{Name: lhs.Name}
		v.SetMeta(exast.Meta{}.With(exast.KeyLocalID, lhs.ID))
		return &exast.Match{LHS: v, RHS: l.lowerExpr(b.Value)}
	case *typed.Field:
		return &exast.FieldSet{
			Object: l.lowerExpr(lhs.Object),
			Field:  l.rename(lhs.Name),
			Value:  l.lowerExpr(b.Value),
		}
	case *typed.Index:
		// arr[i] = v has no mutable counterpart; lower to the functional
		// replace, which the statement-context pass rebinds.
		return &exast.RemoteCall{
			Module: "List",
			Name:   "replace_at",
			Args: []exast.Node{
				l.lowerExpr(lhs.Object),
				l.lowerExpr(lhs.Index),
				l.lowerExpr(b.Value),
			},
		}
	default:
		exerr.Defect("lower", "unsupported bind target %T", b.LHS)
		return nil
	}
}

// lowerBlock consults the idiom library before mechanical lowering. The
// predicates are ordered most-specific first: the coalesce shape is a
// special case of the accessor shape.
func (l *Lowerer) lowerBlock(b *typed.Block) exast.Node {
	if idiom.IsNullCoalesce(b) {
		f, ok := idiom.ExtractNullCoalesce(b)
		if !ok {
			exerr.Defect("lower", "null-coalesce predicate and extractor disagree")
		}
		return idiom.TransformNullCoalesce(f, l.ctx)
	}
	if idiom.IsInlineAccessor(b) {
		f, ok := idiom.ExtractInlineAccessor(b)
		if !ok {
			exerr.Defect("lower", "inline-accessor predicate and extractor disagree")
		}
		return idiom.TransformInlineAccessor(f, l.ctx)
	}
	if idiom.IsMultiAccessorCompare(b) {
		return idiom.TransformMultiAccessorFallback(b, l.ctx)
	}
	if idiom.IsIteratorLoop(b) {
		f, ok := idiom.ExtractIteratorLoop(b)
		if !ok {
			exerr.Defect("lower", "iterator-loop predicate and extractor disagree")
		}
		return idiom.TransformIteratorLoop(f, l.ctx)
	}
	if idiom.IsUnrolledLoopBody(b) {
		f, ok := idiom.ExtractUnrolledLoopBody(b)
		if !ok {
			exerr.Defect("lower", "unrolled-loop predicate and extractor disagree")
		}
		return idiom.TransformUnrolledLoopBody(f, l.ctx)
	}

	exprs := make([]exast.Node, len(b.List))
	for i, s := range b.List {
		exprs[i] = l.lowerExpr(s)
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &exast.Block{Exprs: exprs}
}

var binOps = map[typed.BinOp]exast.BinOp{
	typed.OpAdd:     exast.OpAdd,
	typed.OpSub:     exast.OpSub,
	typed.OpMul:     exast.OpMul,
	typed.OpDiv:     exast.OpDiv,
	typed.OpMod:     exast.OpRem,
	typed.OpEq:      exast.OpEq,
	typed.OpNotEq:   exast.OpNotEq,
	typed.OpLt:      exast.OpLt,
	typed.OpLtEq:    exast.OpLtEq,
	typed.OpGt:      exast.OpGt,
	typed.OpGtEq:    exast.OpGtEq,
	typed.OpBoolAnd: exast.OpAnd,
	typed.OpBoolOr:  exast.OpOr,
	typed.OpBitAnd:  exast.OpBitAnd,
	typed.OpBitOr:   exast.OpBitOr,
	typed.OpBitXor:  exast.OpBitXor,
	typed.OpShl:     exast.OpShiftL,
	typed.OpShr:     exast.OpShiftR,
}

var unOps = map[typed.UnOp]exast.UnOp{
	typed.OpNeg:       exast.OpNeg,
	typed.OpNot:       exast.OpNot,
	typed.OpBitNot:    exast.OpBitNot,
	typed.OpIncrement: exast.OpInc,
	typed.OpDecrement: exast.OpDec,
}

func (l *Lowerer) lowerBinop(b *typed.Binop) exast.Node {
	if b.Op == typed.OpNullCoal {
		// A ?? B: case on A, keeping the nil-vs-false distinction.
		tmp := l.minter.Fresh("_val")
		return &exast.Case{
			Subject: l.lowerExpr(b.L),
			Clauses: []*exast.CaseClause{
				{Pattern: &exast.PLiteral{Lit: &exast.NilLit{}}, Body: l.lowerExpr(b.R)},
				{Pattern: &exast.PVar{Name: tmp}, Body: &exast.Var{Name: tmp}},
			},
		}
	}
	op, ok := binOps[b.Op]
	if !ok {
		exerr.Defect("lower", "unhandled binary operator %d", b.Op)
	}
	l2 := l.lowerExpr(b.L)
	r2 := l.lowerExpr(b.R)
	if op == exast.OpAdd && b.TypeOf() == "String" {
		op = exast.OpStrConcat
	}
	return &exast.Binop{Op: op, L: l2, R: r2}
}

func (l *Lowerer) lowerCall(c *typed.Call) exast.Node {
	args := make([]exast.Node, len(c.Args))
	for i, a := range c.Args {
		args[i] = l.lowerExpr(a)
	}

	switch target := c.Target.(type) {
	case *typed.Ident:
		switch target.Name {
		case "enum_index":
			// tag extraction intrinsic over a tagged-tuple value
			return &exast.Call{Name: "tag_of", Args: args}
		case "enum_param":
			// payload extraction: payload i sits at tuple position i+1,
			// after the tag
			if len(c.Args) == 2 {
				if idx, ok := c.Args[1].(*typed.Const); ok && idx.Kind == typed.ConstInt {
					return &exast.Call{Name: "elem", Args: []exast.Node{
						args[0],
						&exast.IntLit{Value: idx.Int + 1},
					}}
				}
			}
		case "raw_code":
			if len(c.Args) == 1 {
				if s, ok := c.Args[0].(*typed.Const); ok && s.Kind == typed.ConstString {
					return &exast.RawCode{Code: s.Str}
				}
			}
		}
		return &exast.Call{Name: l.rename(target.Name), Args: args}
	case *typed.Field:
		if mod, ok := target.Object.(*typed.Ident); ok && isModuleName(mod.Name) {
			return &exast.RemoteCall{Module: mod.Name, Name: l.rename(target.Name), Args: args}
		}
		return &exast.MethodCall{
			Object: l.lowerExpr(target.Object),
			Name:   l.rename(target.Name),
			Args:   args,
		}
	default:
		// A call on a computed function value: f.(args).
		return &exast.MethodCall{Object: l.lowerExpr(c.Target), Args: args}
	}
}

func (l *Lowerer) lowerSwitch(s *typed.Switch) exast.Node {
	out := &exast.Case{Subject: l.lowerExpr(s.Subject)}
	for _, c := range s.Cases {
		body := l.lowerExpr(c.Body)
		for _, v := range c.Values {
			out.Clauses = append(out.Clauses, &exast.CaseClause{
				Pattern: l.lowerCasePattern(v),
				Body:    body,
			})
		}
	}
	if s.Default != nil {
		out.Clauses = append(out.Clauses, &exast.CaseClause{
			Pattern: &exast.PWildcard{},
			Body:    l.lowerExpr(s.Default),
		})
	}
	return out
}

func (l *Lowerer) lowerCasePattern(v typed.Expr) exast.Pattern {
	lowered := l.lowerExpr(v)
	switch lowered.(type) {
	case *exast.IntLit, *exast.FloatLit, *exast.StringLit, *exast.BoolLit, *exast.NilLit, *exast.Atom:
		return &exast.PLiteral{Lit: lowered}
	default:
		return &exast.PPin{Expr: lowered}
	}
}

// isModuleName reports whether an identifier names a module (the source
// convention: type names start with an upper-case letter).
func isModuleName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// eachChild calls fn on every direct child of a typed node.
func eachChild(e typed.Expr, fn func(typed.Expr)) {
	visit := func(c typed.Expr) {
		if c != nil {
			fn(c)
		}
	}
	switch x := e.(type) {
	case *typed.VarDecl:
		visit(x.Init)
	case *typed.Bind:
		visit(x.LHS)
		visit(x.Value)
	case *typed.Block:
		for _, s := range x.List {
			visit(s)
		}
	case *typed.If:
		visit(x.Cond)
		visit(x.Then)
		visit(x.Else)
	case *typed.Binop:
		visit(x.L)
		visit(x.R)
	case *typed.Unop:
		visit(x.Operand)
	case *typed.Call:
		visit(x.Target)
		for _, a := range x.Args {
			visit(a)
		}
	case *typed.Field:
		visit(x.Object)
	case *typed.Index:
		visit(x.Object)
		visit(x.Index)
	case *typed.While:
		visit(x.Cond)
		visit(x.Body)
	case *typed.ArrayDecl:
		for _, el := range x.Elems {
			visit(el)
		}
	case *typed.ObjectDecl:
		for _, f := range x.Fields {
			visit(f.Value)
		}
	case *typed.New:
		for _, a := range x.Args {
			visit(a)
		}
	case *typed.Return:
		visit(x.Value)
	case *typed.Switch:
		visit(x.Subject)
		for _, c := range x.Cases {
			for _, v := range c.Values {
				visit(v)
			}
			visit(c.Body)
		}
		visit(x.Default)
	case *typed.Meta:
		visit(x.Expr)
	}
}
