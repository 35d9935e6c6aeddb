package printer

import (
	"strconv"
	"strings"

	"github.com/exalt-lang/exalt/exerr"
	"github.com/exalt-lang/exalt/internal/compiler/exast"
)

var binTokens = map[exast.BinOp]string{
	exast.OpAdd:       "+",
	exast.OpSub:       "-",
	exast.OpMul:       "*",
	exast.OpDiv:       "/",
	exast.OpEq:        "==",
	exast.OpNotEq:     "!=",
	exast.OpLt:        "<",
	exast.OpLtEq:      "<=",
	exast.OpGt:        ">",
	exast.OpGtEq:      ">=",
	exast.OpAnd:       "&&",
	exast.OpOr:        "||",
	exast.OpConcat:    "++",
	exast.OpStrConcat: "<>",
}

// bitwiseFuncs maps operators the target has no infix syntax for to
// their Bitwise function names.
var bitwiseFuncs = map[exast.BinOp]string{
	exast.OpBitAnd: "band",
	exast.OpBitOr:  "bor",
	exast.OpBitXor: "bxor",
	exast.OpShiftL: "bsl",
	exast.OpShiftR: "bsr",
}

func (p *Printer) renderExpr(n exast.Node, indent int, c ctx) string {
	switch x := n.(type) {
	case *exast.Var:
		return x.Name
	case *exast.Underscore:
		return "_"
	case *exast.Atom:
		return atomText(x.Name)
	case *exast.IntLit:
		return strconv.FormatInt(x.Value, 10)
	case *exast.FloatLit:
		return floatText(x.Value)
	case *exast.StringLit:
		return `"` + escapeString(x.Value) + `"`
	case *exast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *exast.NilLit:
		return "nil"
	case *exast.List:
		return "[" + p.exprList(x.Elems, indent) + "]"
	case *exast.Tuple:
		return "{" + p.exprList(x.Elems, indent) + "}"
	case *exast.MapLit:
		pairs := make([]string, len(x.Pairs))
		for i, pr := range x.Pairs {
			pairs[i] = p.mapKey(pr.Key, indent) + p.render(pr.Value, indent, ctxValue)
		}
		return "%{" + strings.Join(pairs, ", ") + "}"
	case *exast.KeywordList:
		return "[" + p.keywordPairs(x.Pairs, indent) + "]"
	case *exast.StructLit:
		inner := p.keywordPairs(x.Pairs, indent)
		if x.Update != nil {
			return "%" + x.Module + "{" + p.render(x.Update, indent, ctxValue) + " | " + inner + "}"
		}
		return "%" + x.Module + "{" + inner + "}"
	case *exast.Bitstring:
		segs := make([]string, len(x.Segs))
		for i, s := range x.Segs {
			segs[i] = p.bitSeg(s, indent)
		}
		return "<<" + strings.Join(segs, ", ") + ">>"
	case *exast.Call:
		return x.Name + "(" + p.exprList(x.Args, indent) + ")"
	case *exast.RemoteCall:
		return x.Module + "." + x.Name + "(" + p.exprList(x.Args, indent) + ")"
	case *exast.MethodCall:
		// leftover builder artifact: a dynamic invocation on an object
		if x.Name == "" {
			return p.accessTarget(x.Object, indent) + ".(" + p.exprList(x.Args, indent) + ")"
		}
		return p.accessTarget(x.Object, indent) + "." + x.Name + "(" + p.exprList(x.Args, indent) + ")"
	case *exast.Binop:
		return p.renderBinop(x, indent, c)
	case *exast.Unop:
		return p.renderUnop(x, indent, c)
	case *exast.FieldAccess:
		return p.accessTarget(x.Object, indent) + "." + x.Field
	case *exast.IndexAccess:
		return "Enum.at(" + p.render(x.Object, indent, ctxValue) + ", " + p.render(x.Index, indent, ctxValue) + ")"
	case *exast.FieldSet:
		// leftover builder artifact: prints as a map update so output
		// stays syntactically valid
		return "%{" + p.render(x.Object, indent, ctxValue) + " | " + x.Field + ": " + p.render(x.Value, indent, ctxValue) + "}"
	case *exast.Range:
		return p.render(x.From, indent, ctxOperand) + ".." + p.render(x.To, indent, ctxOperand)
	case *exast.Pipe:
		return p.render(x.L, indent, ctxOperand) + " |> " + p.render(x.R, indent, ctxOperand)
	default:
		exerr.Defect("printer", "no rendering for node %T", n)
		return ""
	}
}

func (p *Printer) renderBinop(x *exast.Binop, indent int, c ctx) string {
	if x.Op == exast.OpRem {
		return "rem(" + p.render(x.L, indent, ctxValue) + ", " + p.render(x.R, indent, ctxValue) + ")"
	}
	if fn, ok := bitwiseFuncs[x.Op]; ok {
		return "Bitwise." + fn + "(" + p.render(x.L, indent, ctxValue) + ", " + p.render(x.R, indent, ctxValue) + ")"
	}
	tok, ok := binTokens[x.Op]
	if !ok {
		exerr.Defect("printer", "no rendering for binary operator %d", x.Op)
	}
	s := p.render(x.L, indent, ctxOperand) + " " + tok + " " + p.render(x.R, indent, ctxOperand)
	// subtraction re-parses ambiguously inside a larger expression
	if x.Op == exast.OpSub && c == ctxOperand {
		return "(" + s + ")"
	}
	return s
}

func (p *Printer) renderUnop(x *exast.Unop, indent int, c ctx) string {
	switch x.Op {
	case exast.OpNeg:
		return "-" + p.render(x.Operand, indent, ctxOperand)
	case exast.OpNot:
		return "!" + p.render(x.Operand, indent, ctxOperand)
	case exast.OpBitNot:
		return "Bitwise.bnot(" + p.render(x.Operand, indent, ctxValue) + ")"
	case exast.OpInc:
		// leftover builder artifact: the rebinding pass normally
		// consumed this, print the arithmetic value instead
		return p.parenValue(c, p.render(x.Operand, indent, ctxOperand)+" + 1")
	case exast.OpDec:
		return p.parenValue(c, p.render(x.Operand, indent, ctxOperand)+" - 1")
	default:
		exerr.Defect("printer", "no rendering for unary operator %d", x.Op)
		return ""
	}
}

func (p *Printer) exprList(ns []exast.Node, indent int) string {
	parts := make([]string, len(ns))
	for i, e := range ns {
		parts[i] = p.render(e, indent, ctxValue)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) keywordPairs(ps []exast.KeywordPair, indent int) string {
	parts := make([]string, len(ps))
	for i, kp := range ps {
		parts[i] = kp.Key + ": " + p.render(kp.Value, indent, ctxValue)
	}
	return strings.Join(parts, ", ")
}

// mapKey renders a map pair key with its separator: shorthand for bare
// atoms, arrow form otherwise.
func (p *Printer) mapKey(k exast.Node, indent int) string {
	if a, ok := k.(*exast.Atom); ok && isBareAtom(a.Name) {
		return a.Name + ": "
	}
	return p.render(k, indent, ctxValue) + " => "
}

func (p *Printer) bitSeg(s *exast.BitSeg, indent int) string {
	out := p.render(s.Value, indent, ctxValue)
	if s.Type != "" {
		out += "::" + s.Type
		if s.Size != nil {
			out += "-size(" + p.render(s.Size, indent, ctxValue) + ")"
		}
		return out
	}
	if s.Size != nil {
		out += "::size(" + p.render(s.Size, indent, ctxValue) + ")"
	}
	return out
}

// accessTarget renders the receiver of a dot access, parenthesizing
// anything that would not re-parse as the receiver.
func (p *Printer) accessTarget(n exast.Node, indent int) string {
	switch n.(type) {
	case *exast.Var, *exast.FieldAccess, *exast.Call, *exast.RemoteCall, *exast.MethodCall, *exast.StructLit, *exast.MapLit:
		return p.render(n, indent, ctxValue)
	default:
		return "(" + p.render(n, indent, ctxValue) + ")"
	}
}

// isSimple reports whether n is eligible for single-line inline
// rendering. Assignments and empty blocks are never simple, and
// compound forms are simple only when every child is. A call carrying
// the inline hint stays eligible past the argument-count cutoff.
func isSimple(n exast.Node) bool {
	switch x := n.(type) {
	case nil:
		return false
	case *exast.Var, *exast.Underscore, *exast.Atom, *exast.IntLit, *exast.FloatLit,
		*exast.StringLit, *exast.BoolLit, *exast.NilLit:
		return true
	case *exast.RawCode:
		return !strings.Contains(x.Code, "\n")
	case *exast.FieldAccess:
		return isSimple(x.Object)
	case *exast.IndexAccess:
		return isSimple(x.Object) && isSimple(x.Index)
	case *exast.List:
		return allSimple(x.Elems)
	case *exast.Tuple:
		return allSimple(x.Elems)
	case *exast.MapLit:
		for _, pr := range x.Pairs {
			if !isSimple(pr.Key) || !isSimple(pr.Value) {
				return false
			}
		}
		return true
	case *exast.KeywordList:
		return allSimpleKeyword(x.Pairs)
	case *exast.StructLit:
		if x.Update != nil && !isSimple(x.Update) {
			return false
		}
		return allSimpleKeyword(x.Pairs)
	case *exast.Call:
		return inlineArity(x, x.Args) && allSimple(x.Args)
	case *exast.RemoteCall:
		return inlineArity(x, x.Args) && allSimple(x.Args)
	case *exast.MethodCall:
		return isSimple(x.Object) && inlineArity(x, x.Args) && allSimple(x.Args)
	case *exast.Binop:
		return isSimple(x.L) && isSimple(x.R)
	case *exast.Unop:
		return isSimple(x.Operand)
	case *exast.Range:
		return isSimple(x.From) && isSimple(x.To)
	default:
		return false
	}
}

func inlineArity(n exast.Node, args []exast.Node) bool {
	return len(args) <= 2 || n.Meta().Bool(exast.KeyInline)
}

func allSimple(ns []exast.Node) bool {
	for _, e := range ns {
		if !isSimple(e) {
			return false
		}
	}
	return true
}

func allSimpleKeyword(ps []exast.KeywordPair) bool {
	for _, kp := range ps {
		if !isSimple(kp.Value) {
			return false
		}
	}
	return true
}

// atomText renders a symbolic literal, quoting names the bare form
// cannot express.
func atomText(name string) string {
	if isBareAtom(name) {
		return ":" + name
	}
	return `:"` + escapeString(name) + `"`
}

// isBareAtom reports whether name is legal unquoted: a letter or
// underscore, then alphanumerics or underscores, optionally ending in
// ! or ?.
func isBareAtom(name string) bool {
	if name == "" {
		return false
	}
	body := name
	last := name[len(name)-1]
	if last == '!' || last == '?' {
		body = name[:len(name)-1]
		if body == "" {
			return false
		}
	}
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// escapeString escapes backslash, double quote, newline, carriage
// return and tab. Everything else passes through untouched.
func escapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func floatText(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
