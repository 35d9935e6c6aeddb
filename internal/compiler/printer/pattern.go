package printer

import (
	"strings"

	"github.com/exalt-lang/exalt/exerr"
	"github.com/exalt-lang/exalt/internal/compiler/exast"
)

func (p *Printer) pattern(pt exast.Pattern, indent int) string {
	switch x := pt.(type) {
	case *exast.PWildcard:
		return "_"
	case *exast.PVar:
		return x.Name
	case *exast.PLiteral:
		return p.render(x.Lit, indent, ctxValue)
	case *exast.PPin:
		return "^" + p.render(x.Expr, indent, ctxValue)
	case *exast.PTuple:
		return "{" + p.patterns(x.Elems, indent) + "}"
	case *exast.PList:
		return "[" + p.patterns(x.Elems, indent) + "]"
	case *exast.PCons:
		return "[" + p.pattern(x.Head, indent) + " | " + p.pattern(x.Tail, indent) + "]"
	case *exast.PMap:
		return "%{" + p.patternEntries(x.Entries, indent) + "}"
	case *exast.PStruct:
		return "%" + x.Module + "{" + p.patternEntries(x.Entries, indent) + "}"
	case *exast.PBitstringSeg:
		segs := make([]string, len(x.Segs))
		for i, s := range x.Segs {
			segs[i] = p.bitSeg(s, indent)
		}
		return "<<" + strings.Join(segs, ", ") + ">>"
	default:
		exerr.Defect("printer", "no rendering for pattern %T", pt)
		return ""
	}
}

func (p *Printer) patterns(ps []exast.Pattern, indent int) string {
	parts := make([]string, len(ps))
	for i, pt := range ps {
		parts[i] = p.pattern(pt, indent)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) patternEntries(es []exast.PMapEntry, indent int) string {
	parts := make([]string, len(es))
	for i, e := range es {
		if a, ok := e.Key.(*exast.Atom); ok && isBareAtom(a.Name) {
			parts[i] = a.Name + ": " + p.pattern(e.Value, indent)
			continue
		}
		parts[i] = p.render(e.Key, indent, ctxValue) + " => " + p.pattern(e.Value, indent)
	}
	return strings.Join(parts, ", ")
}
