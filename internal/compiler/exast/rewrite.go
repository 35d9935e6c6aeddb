package exast

import "github.com/exalt-lang/exalt/exerr"

// Rewriter transforms a node into its replacement.
type Rewriter func(Node) Node

// Rewrite rebuilds the tree bottom-up: all children are rewritten first,
// the current node is reconstructed from the rewritten children with its
// metadata carried forward, and fn is applied to the rebuilt node. The
// result of fn is returned.
//
// RawCode is the one exception: its content originates outside the
// structured AST, so it is passed through unchanged and fn is not applied.
func Rewrite(n Node, fn Rewriter) Node {
	if n == nil {
		return nil
	}
	if _, ok := n.(*RawCode); ok {
		return n
	}
	return fn(rebuild(n, fn))
}

func rewriteChild(n Node, fn Rewriter) Node {
	if n == nil {
		return nil
	}
	return Rewrite(n, fn)
}

func rewriteAll(ns []Node, fn Rewriter) []Node {
	if ns == nil {
		return nil
	}
	out := make([]Node, len(ns))
	for i, c := range ns {
		out[i] = rewriteChild(c, fn)
	}
	return out
}

func rewriteClauses(cs []*CaseClause, fn Rewriter) []*CaseClause {
	if cs == nil {
		return nil
	}
	out := make([]*CaseClause, len(cs))
	for i, c := range cs {
		out[i] = &CaseClause{
			Pattern: RewritePattern(c.Pattern, fn),
			Guard:   rewriteChild(c.Guard, fn),
			Body:    rewriteChild(c.Body, fn),
		}
	}
	return out
}

func rewriteSegs(segs []*BitSeg, fn Rewriter) []*BitSeg {
	out := make([]*BitSeg, len(segs))
	for i, s := range segs {
		out[i] = &BitSeg{
			Value: rewriteChild(s.Value, fn),
			Size:  rewriteChild(s.Size, fn),
			Type:  s.Type,
		}
	}
	return out
}

func rebuild(n Node, fn Rewriter) Node {
	switch x := n.(type) {
	case *Module:
		nn := &Module{Name: x.Name, Body: rewriteAll(x.Body, fn)}
		nn.M = x.M
		return nn
	case *Def:
		params := make([]Pattern, len(x.Params))
		for i, p := range x.Params {
			params[i] = RewritePattern(p, fn)
		}
		nn := &Def{
			Name:    x.Name,
			Params:  params,
			Guard:   rewriteChild(x.Guard, fn),
			Body:    rewriteChild(x.Body, fn),
			Private: x.Private,
			Macro:   x.Macro,
		}
		nn.M = x.M
		return nn
	case *Alias:
		nn := &Alias{Directive: x.Directive, Module: x.Module}
		nn.M = x.M
		return nn
	case *Attribute:
		nn := &Attribute{Name: x.Name, Value: rewriteChild(x.Value, fn)}
		nn.M = x.M
		return nn
	case *Block:
		nn := &Block{Exprs: rewriteAll(x.Exprs, fn)}
		nn.M = x.M
		return nn
	case *If:
		nn := &If{
			Cond: rewriteChild(x.Cond, fn),
			Then: rewriteChild(x.Then, fn),
			Else: rewriteChild(x.Else, fn),
		}
		nn.M = x.M
		return nn
	case *Case:
		nn := &Case{
			Subject: rewriteChild(x.Subject, fn),
			Clauses: rewriteClauses(x.Clauses, fn),
		}
		nn.M = x.M
		return nn
	case *Cond:
		clauses := make([]*CondClause, len(x.Clauses))
		for i, c := range x.Clauses {
			clauses[i] = &CondClause{
				Cond: rewriteChild(c.Cond, fn),
				Body: rewriteChild(c.Body, fn),
			}
		}
		nn := &Cond{Clauses: clauses}
		nn.M = x.M
		return nn
	case *Try:
		nn := &Try{
			Body:   rewriteChild(x.Body, fn),
			Rescue: rewriteClauses(x.Rescue, fn),
			Catch:  rewriteClauses(x.Catch, fn),
			Else:   rewriteClauses(x.Else, fn),
			After:  rewriteChild(x.After, fn),
		}
		nn.M = x.M
		return nn
	case *With:
		clauses := make([]*WithClause, len(x.Clauses))
		for i, c := range x.Clauses {
			clauses[i] = &WithClause{
				Pattern: RewritePattern(c.Pattern, fn),
				Expr:    rewriteChild(c.Expr, fn),
			}
		}
		nn := &With{
			Clauses: clauses,
			Body:    rewriteChild(x.Body, fn),
			Else:    rewriteClauses(x.Else, fn),
		}
		nn.M = x.M
		return nn
	case *Receive:
		nn := &Receive{
			Clauses:      rewriteClauses(x.Clauses, fn),
			AfterTimeout: rewriteChild(x.AfterTimeout, fn),
			AfterBody:    rewriteChild(x.AfterBody, fn),
		}
		nn.M = x.M
		return nn
	case *For:
		gens := make([]*Generator, len(x.Generators))
		for i, g := range x.Generators {
			gens[i] = &Generator{
				Pattern: RewritePattern(g.Pattern, fn),
				Enum:    rewriteChild(g.Enum, fn),
			}
		}
		nn := &For{
			Generators: gens,
			Filters:    rewriteAll(x.Filters, fn),
			Into:       rewriteChild(x.Into, fn),
			Body:       rewriteChild(x.Body, fn),
		}
		nn.M = x.M
		return nn
	case *While:
		nn := &While{
			Cond: rewriteChild(x.Cond, fn),
			Body: rewriteChild(x.Body, fn),
		}
		nn.M = x.M
		return nn
	case *List:
		nn := &List{Elems: rewriteAll(x.Elems, fn)}
		nn.M = x.M
		return nn
	case *Tuple:
		nn := &Tuple{Elems: rewriteAll(x.Elems, fn)}
		nn.M = x.M
		return nn
	case *MapLit:
		pairs := make([]Pair, len(x.Pairs))
		for i, p := range x.Pairs {
			pairs[i] = Pair{
				Key:   rewriteChild(p.Key, fn),
				Value: rewriteChild(p.Value, fn),
			}
		}
		nn := &MapLit{Pairs: pairs}
		nn.M = x.M
		return nn
	case *KeywordList:
		nn := &KeywordList{Pairs: rewriteKeywordPairs(x.Pairs, fn)}
		nn.M = x.M
		return nn
	case *StructLit:
		nn := &StructLit{
			Module: x.Module,
			Update: rewriteChild(x.Update, fn),
			Pairs:  rewriteKeywordPairs(x.Pairs, fn),
		}
		nn.M = x.M
		return nn
	case *Bitstring:
		nn := &Bitstring{Segs: rewriteSegs(x.Segs, fn)}
		nn.M = x.M
		return nn
	case *Call:
		nn := &Call{Name: x.Name, Args: rewriteAll(x.Args, fn)}
		nn.M = x.M
		return nn
	case *RemoteCall:
		nn := &RemoteCall{Module: x.Module, Name: x.Name, Args: rewriteAll(x.Args, fn)}
		nn.M = x.M
		return nn
	case *MethodCall:
		nn := &MethodCall{
			Object: rewriteChild(x.Object, fn),
			Name:   x.Name,
			Args:   rewriteAll(x.Args, fn),
		}
		nn.M = x.M
		return nn
	case *Binop:
		nn := &Binop{Op: x.Op, L: rewriteChild(x.L, fn), R: rewriteChild(x.R, fn)}
		nn.M = x.M
		return nn
	case *Unop:
		nn := &Unop{Op: x.Op, Operand: rewriteChild(x.Operand, fn)}
		nn.M = x.M
		return nn
	case *FieldAccess:
		nn := &FieldAccess{Object: rewriteChild(x.Object, fn), Field: x.Field}
		nn.M = x.M
		return nn
	case *IndexAccess:
		nn := &IndexAccess{
			Object: rewriteChild(x.Object, fn),
			Index:  rewriteChild(x.Index, fn),
		}
		nn.M = x.M
		return nn
	case *FieldSet:
		nn := &FieldSet{
			Object: rewriteChild(x.Object, fn),
			Field:  x.Field,
			Value:  rewriteChild(x.Value, fn),
		}
		nn.M = x.M
		return nn
	case *Range:
		nn := &Range{From: rewriteChild(x.From, fn), To: rewriteChild(x.To, fn)}
		nn.M = x.M
		return nn
	case *Pipe:
		nn := &Pipe{L: rewriteChild(x.L, fn), R: rewriteChild(x.R, fn)}
		nn.M = x.M
		return nn
	case *Match:
		nn := &Match{LHS: rewriteChild(x.LHS, fn), RHS: rewriteChild(x.RHS, fn)}
		nn.M = x.M
		return nn
	case *Fn:
		clauses := make([]*FnClause, len(x.Clauses))
		for i, c := range x.Clauses {
			params := make([]Pattern, len(c.Params))
			for j, p := range c.Params {
				params[j] = RewritePattern(p, fn)
			}
			clauses[i] = &FnClause{
				Params: params,
				Guard:  rewriteChild(c.Guard, fn),
				Body:   rewriteChild(c.Body, fn),
			}
		}
		nn := &Fn{Clauses: clauses}
		nn.M = x.M
		return nn
	case *Var, *Atom, *IntLit, *FloatLit, *StringLit, *BoolLit, *NilLit, *Underscore:
		return n
	default:
		exerr.Defect("exast", "Rewrite: unhandled node %T", n)
		return nil
	}
}

func rewriteKeywordPairs(pairs []KeywordPair, fn Rewriter) []KeywordPair {
	out := make([]KeywordPair, len(pairs))
	for i, p := range pairs {
		out[i] = KeywordPair{Key: p.Key, Value: rewriteChild(p.Value, fn)}
	}
	return out
}

// RewritePattern rewrites the expression positions embedded in a pattern
// (pinned expressions, literal values, bit-string sizes) with fn. The
// pattern structure itself is preserved.
func RewritePattern(p Pattern, fn Rewriter) Pattern {
	switch x := p.(type) {
	case nil:
		return nil
	case *PVar, *PWildcard:
		return p
	case *PLiteral:
		return &PLiteral{Lit: rewriteChild(x.Lit, fn)}
	case *PTuple:
		return &PTuple{Elems: rewritePatterns(x.Elems, fn)}
	case *PList:
		return &PList{Elems: rewritePatterns(x.Elems, fn)}
	case *PCons:
		return &PCons{
			Head: RewritePattern(x.Head, fn),
			Tail: RewritePattern(x.Tail, fn),
		}
	case *PMap:
		return &PMap{Entries: rewriteEntries(x.Entries, fn)}
	case *PStruct:
		return &PStruct{Module: x.Module, Entries: rewriteEntries(x.Entries, fn)}
	case *PPin:
		return &PPin{Expr: rewriteChild(x.Expr, fn)}
	case *PBitstringSeg:
		return &PBitstringSeg{Segs: rewriteSegs(x.Segs, fn)}
	default:
		exerr.Defect("exast", "RewritePattern: unhandled pattern %T", p)
		return nil
	}
}

func rewritePatterns(ps []Pattern, fn Rewriter) []Pattern {
	out := make([]Pattern, len(ps))
	for i, p := range ps {
		out[i] = RewritePattern(p, fn)
	}
	return out
}

func rewriteEntries(es []PMapEntry, fn Rewriter) []PMapEntry {
	out := make([]PMapEntry, len(es))
	for i, e := range es {
		out[i] = PMapEntry{
			Key:   rewriteChild(e.Key, fn),
			Value: RewritePattern(e.Value, fn),
		}
	}
	return out
}
