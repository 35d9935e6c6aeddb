package passes

import "github.com/exalt-lang/exalt/internal/compiler/exast"

// rebuildTaggedCase turns tag-dispatch cases back into tuple patterns:
//
//	case tag_of(x) do          case x do
//	  0 ->                       {0, v} ->
//	    v = elem(x, 1)     =>      ...
//	    ...
//
// A clause only participates when its pattern is an integer literal;
// wildcard clauses carry over unchanged. Any other pattern kind leaves
// the whole case untouched.
func rebuildTaggedCase(root exast.Node) exast.Node {
	return exast.Rewrite(root, func(n exast.Node) exast.Node {
		c, ok := n.(*exast.Case)
		if !ok {
			return n
		}
		tag, ok := c.Subject.(*exast.Call)
		if !ok || tag.Name != "tag_of" || len(tag.Args) != 1 {
			return n
		}
		subject, ok := tag.Args[0].(*exast.Var)
		if !ok {
			return n
		}

		rebuilt := make([]*exast.CaseClause, len(c.Clauses))
		sawTag := false
		for i, clause := range c.Clauses {
			switch p := clause.Pattern.(type) {
			case *exast.PLiteral:
				lit, ok := p.Lit.(*exast.IntLit)
				if !ok {
					return n
				}
				rebuilt[i] = rebuildTagClause(lit, clause, subject.Name)
				sawTag = true
			case *exast.PWildcard:
				rebuilt[i] = clause
			default:
				return n
			}
		}
		if !sawTag {
			return n
		}

		out := &exast.Case{Subject: subject, Clauses: rebuilt}
		out.SetMeta(c.Meta())
		return out
	})
}

// rebuildTagClause moves the clause's leading payload extractions
// (`v = elem(x, i)`) into a tuple pattern {tag, v, ...}, with
// underscores filling unextracted positions.
func rebuildTagClause(tag *exast.IntLit, clause *exast.CaseClause, subject string) *exast.CaseClause {
	body := clause.Body
	stmts := []exast.Node{body}
	if b, ok := body.(*exast.Block); ok {
		stmts = b.Exprs
	}

	payload := map[int64]string{}
	maxIdx := int64(0)
	rest := stmts
	for len(rest) > 1 {
		m, v := matchToVar(rest[0])
		if m == nil {
			break
		}
		idx, ok := elemExtraction(m.RHS, subject)
		if !ok {
			break
		}
		payload[idx] = v.Name
		if idx > maxIdx {
			maxIdx = idx
		}
		rest = rest[1:]
	}
	if len(payload) == 0 {
		return &exast.CaseClause{
			Pattern: &exast.PTuple{Elems: []exast.Pattern{&exast.PLiteral{Lit: tag}}},
			Guard:   clause.Guard,
			Body:    clause.Body,
		}
	}

	elems := make([]exast.Pattern, maxIdx+1)
	elems[0] = &exast.PLiteral{Lit: tag}
	for i := int64(1); i <= maxIdx; i++ {
		if name, ok := payload[i]; ok {
			elems[i] = &exast.PVar{Name: name}
		} else {
			elems[i] = &exast.PWildcard{}
		}
	}

	var newBody exast.Node
	if len(rest) == 1 {
		newBody = rest[0]
	} else {
		newBody = &exast.Block{Exprs: rest}
	}
	return &exast.CaseClause{
		Pattern: &exast.PTuple{Elems: elems},
		Guard:   clause.Guard,
		Body:    newBody,
	}
}

// elemExtraction matches `elem(subject, i)` with i >= 1 and returns i.
func elemExtraction(n exast.Node, subject string) (int64, bool) {
	call, ok := n.(*exast.Call)
	if !ok || call.Name != "elem" || len(call.Args) != 2 {
		return 0, false
	}
	v, ok := call.Args[0].(*exast.Var)
	if !ok || v.Name != subject {
		return 0, false
	}
	idx, ok := call.Args[1].(*exast.IntLit)
	if !ok || idx.Value < 1 {
		return 0, false
	}
	return idx.Value, true
}
