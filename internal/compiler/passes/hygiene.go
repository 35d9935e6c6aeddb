package passes

import (
	"strings"

	"github.com/exalt-lang/exalt/internal/compiler/exast"
)

// underscoreHygiene applies usage analysis per function definition:
// bindings that are never read again get an underscore prefix, and
// generated temporaries whose underscore name is actually read get the
// prefix stripped. A rename applies to every occurrence of the name in
// the definition. A variable's own right-hand-side self-reference does
// not count as a use, so `x = x + 1` alone still underscores x.
//
// The pass is idempotent: prefixed names are never prefixed again, and a
// stripped name is only stripped when it is read.
func underscoreHygiene(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		def, ok := n.(*exast.Def)
		if !ok {
			return n
		}
		return hygieneDef(def)
	})
}

func hygieneDef(def *exast.Def) exast.Node {
	bound := map[string]bool{}
	for _, p := range def.Params {
		collectPatternVars(p, bound)
	}
	exast.Walk(def.Body, func(n exast.Node) {
		switch x := n.(type) {
		case *exast.Match:
			collectLHSVars(x.LHS, bound)
		case *exast.Case:
			for _, c := range x.Clauses {
				collectPatternVars(c.Pattern, bound)
			}
		case *exast.For:
			for _, g := range x.Generators {
				collectPatternVars(g.Pattern, bound)
			}
		case *exast.Fn:
			for _, c := range x.Clauses {
				for _, p := range c.Params {
					collectPatternVars(p, bound)
				}
			}
		}
	})

	reads := map[string]int{}
	countReads(def.Body, map[string]bool{}, reads)
	if def.Guard != nil {
		countReads(def.Guard, map[string]bool{}, reads)
	}

	rename := map[string]string{}
	for name := range bound {
		switch {
		case reads[name] == 0 && !strings.HasPrefix(name, "_"):
			rename[name] = "_" + name
		case reads[name] > 0 && strings.HasPrefix(name, "_") && len(name) > 1:
			stripped := strings.TrimPrefix(name, "_")
			if !bound[stripped] {
				rename[name] = stripped
			}
		}
	}
	if len(rename) == 0 {
		return def
	}

	params := make([]exast.Pattern, len(def.Params))
	for i, p := range def.Params {
		params[i] = renamePattern(p, rename)
	}
	body := renameVars(def.Body, rename)
	var guard exast.Node
	if def.Guard != nil {
		guard = renameVars(def.Guard, rename)
	}
	out := &exast.Def{
		Name:    def.Name,
		Params:  params,
		Guard:   guard,
		Body:    body,
		Private: def.Private,
		Macro:   def.Macro,
	}
	out.SetMeta(def.Meta())
	return out
}

func collectLHSVars(lhs exast.Node, into map[string]bool) {
	exast.Walk(lhs, func(n exast.Node) {
		if v, ok := n.(*exast.Var); ok {
			into[v.Name] = true
		}
	})
}

func collectPatternVars(p exast.Pattern, into map[string]bool) {
	switch x := p.(type) {
	case nil:
	case *exast.PVar:
		into[x.Name] = true
	case *exast.PTuple:
		for _, e := range x.Elems {
			collectPatternVars(e, into)
		}
	case *exast.PList:
		for _, e := range x.Elems {
			collectPatternVars(e, into)
		}
	case *exast.PCons:
		collectPatternVars(x.Head, into)
		collectPatternVars(x.Tail, into)
	case *exast.PMap:
		for _, e := range x.Entries {
			collectPatternVars(e.Value, into)
		}
	case *exast.PStruct:
		for _, e := range x.Entries {
			collectPatternVars(e.Value, into)
		}
	}
}

// countReads tallies variable reads. Binding positions (match left-hand
// sides, clause patterns) do not read, and a match's right-hand side
// does not read the variable the match itself binds.
func countReads(n exast.Node, excluded map[string]bool, reads map[string]int) {
	if n == nil {
		return
	}
	switch x := n.(type) {
	case *exast.Var:
		if !excluded[x.Name] {
			reads[x.Name]++
		}
	case *exast.Match:
		if v, ok := x.LHS.(*exast.Var); ok {
			inner := map[string]bool{v.Name: true}
			for k := range excluded {
				inner[k] = true
			}
			countReads(x.RHS, inner, reads)
			return
		}
		countReads(x.RHS, excluded, reads)
	default:
		exast.Visit(n, func(c exast.Node) {
			countReads(c, excluded, reads)
		})
	}
}

func renameVars(n exast.Node, rename map[string]string) exast.Node {
	out := exast.Rewrite(n, func(c exast.Node) exast.Node {
		if v, ok := c.(*exast.Var); ok {
			if nn, ok := rename[v.Name]; ok {
				repl := &exast.Var{Name: nn}
				repl.SetMeta(v.Meta())
				return repl
			}
		}
		return renameOwnPatterns(c, rename)
	})
	return out
}

// renameOwnPatterns renames pattern variables held directly by c.
func renameOwnPatterns(c exast.Node, rename map[string]string) exast.Node {
	switch x := c.(type) {
	case *exast.Case:
		clauses := make([]*exast.CaseClause, len(x.Clauses))
		for i, cl := range x.Clauses {
			clauses[i] = &exast.CaseClause{
				Pattern: renamePattern(cl.Pattern, rename),
				Guard:   cl.Guard,
				Body:    cl.Body,
			}
		}
		nn := &exast.Case{Subject: x.Subject, Clauses: clauses}
		nn.SetMeta(x.Meta())
		return nn
	case *exast.For:
		gens := make([]*exast.Generator, len(x.Generators))
		for i, g := range x.Generators {
			gens[i] = &exast.Generator{Pattern: renamePattern(g.Pattern, rename), Enum: g.Enum}
		}
		nn := &exast.For{Generators: gens, Filters: x.Filters, Into: x.Into, Body: x.Body}
		nn.SetMeta(x.Meta())
		return nn
	case *exast.Fn:
		clauses := make([]*exast.FnClause, len(x.Clauses))
		for i, cl := range x.Clauses {
			params := make([]exast.Pattern, len(cl.Params))
			for j, p := range cl.Params {
				params[j] = renamePattern(p, rename)
			}
			clauses[i] = &exast.FnClause{Params: params, Guard: cl.Guard, Body: cl.Body}
		}
		nn := &exast.Fn{Clauses: clauses}
		nn.SetMeta(x.Meta())
		return nn
	}
	return c
}

func renamePattern(p exast.Pattern, rename map[string]string) exast.Pattern {
	switch x := p.(type) {
	case *exast.PVar:
		if nn, ok := rename[x.Name]; ok {
			return &exast.PVar{Name: nn}
		}
		return p
	case *exast.PTuple:
		return &exast.PTuple{Elems: renamePatterns(x.Elems, rename)}
	case *exast.PList:
		return &exast.PList{Elems: renamePatterns(x.Elems, rename)}
	case *exast.PCons:
		return &exast.PCons{Head: renamePattern(x.Head, rename), Tail: renamePattern(x.Tail, rename)}
	case *exast.PMap:
		return &exast.PMap{Entries: renamePatternEntries(x.Entries, rename)}
	case *exast.PStruct:
		return &exast.PStruct{Module: x.Module, Entries: renamePatternEntries(x.Entries, rename)}
	default:
		return p
	}
}

func renamePatterns(ps []exast.Pattern, rename map[string]string) []exast.Pattern {
	out := make([]exast.Pattern, len(ps))
	for i, p := range ps {
		out[i] = renamePattern(p, rename)
	}
	return out
}

func renamePatternEntries(es []exast.PMapEntry, rename map[string]string) []exast.PMapEntry {
	out := make([]exast.PMapEntry, len(es))
	for i, e := range es {
		out[i] = exast.PMapEntry{Key: e.Key, Value: renamePattern(e.Value, rename)}
	}
	return out
}
