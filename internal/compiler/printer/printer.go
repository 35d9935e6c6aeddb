// Package printer renders a final tree as Elixir source text. Rendering
// is context sensitive: the same node prints differently as a statement,
// as an operand of a binary operator, or in a value slot of a literal or
// call. The printer is read-only and total over the shapes the pipeline
// can emit; an unhandled shape is a defect in an earlier stage.
package printer

import (
	"strings"

	"github.com/exalt-lang/exalt/exerr"
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/names"
)

// ctx is the syntactic position a node is rendered in.
type ctx int

const (
	// ctxStmt is a line of a do block. Multi-line forms print bare.
	ctxStmt ctx = iota
	// ctxMatchRHS is the right-hand side of a rebinding. Conditionals
	// print bare, blocks wrap as an immediately invoked function.
	ctxMatchRHS
	// ctxValue is a call argument or a literal slot. Conditionals are
	// parenthesized, blocks wrap as an immediately invoked function.
	ctxValue
	// ctxOperand is an operand of a binary operator. Like ctxValue, and
	// subtraction is additionally parenthesized.
	ctxOperand
)

// Printer unparses final trees. The minter is shared with the pipeline
// so loop names stay unique across the whole unit.
type Printer struct {
	minter *names.Minter
}

// New creates a Printer. A nil minter gets a private one.
func New(minter *names.Minter) *Printer {
	if minter == nil {
		minter = names.NewMinter()
	}
	return &Printer{minter: minter}
}

// Print renders node at zero base indentation. Exhaustiveness faults
// raised during rendering surface as the returned error.
func (p *Printer) Print(n exast.Node) (out string, err error) {
	defer exerr.Recover(&err)
	if n == nil {
		return "", nil
	}
	return p.render(n, 0, ctxStmt) + "\n", nil
}

func ind(n int) string {
	return strings.Repeat("  ", n)
}

// body renders a do-block body: each statement on its own fully indented
// line. A non-block node is a single-statement body.
func (p *Printer) body(n exast.Node, indent int) string {
	b, ok := n.(*exast.Block)
	if !ok {
		return p.stmtLine(n, indent)
	}
	if len(b.Exprs) == 0 {
		return ind(indent) + "nil"
	}
	lines := make([]string, len(b.Exprs))
	for i, e := range b.Exprs {
		lines[i] = p.stmtLine(e, indent)
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) stmtLine(n exast.Node, indent int) string {
	return ind(indent) + p.render(n, indent, ctxStmt)
}

// render returns node text whose first line carries no indentation;
// continuation lines are indented relative to indent.
func (p *Printer) render(n exast.Node, indent int, c ctx) string {
	switch x := n.(type) {
	case *exast.Module:
		return p.renderModule(x, indent)
	case *exast.Def:
		return p.renderDef(x, indent)
	case *exast.Alias:
		return x.Directive + " " + x.Module
	case *exast.Attribute:
		if x.Value == nil {
			return "@" + x.Name
		}
		return "@" + x.Name + " " + p.render(x.Value, indent, ctxValue)
	case *exast.Block:
		return p.renderBlock(x, indent, c)
	case *exast.If:
		return p.renderIf(x, indent, c)
	case *exast.Case:
		return p.parenValue(c, p.renderCase(x, indent, c))
	case *exast.Cond:
		return p.parenValue(c, p.renderCond(x, indent, c))
	case *exast.Try:
		return p.parenValue(c, p.renderTry(x, indent, c))
	case *exast.With:
		return p.parenValue(c, p.renderWith(x, indent, c))
	case *exast.Receive:
		return p.parenValue(c, p.renderReceive(x, indent, c))
	case *exast.For:
		return p.parenValue(c, p.renderFor(x, indent, c))
	case *exast.While:
		return p.renderWhile(x, indent, c)
	case *exast.Fn:
		return p.renderFn(x, indent)
	case *exast.Match:
		return p.renderMatch(x, indent, c)
	case *exast.RawCode:
		return x.Code
	default:
		return p.renderExpr(n, indent, c)
	}
}

// parenValue parenthesizes a conditional rendered as a value. The paren
// wraps whatever form the construct took, inline or multi-line.
func (p *Printer) parenValue(c ctx, s string) string {
	if c == ctxValue || c == ctxOperand {
		return "(" + s + ")"
	}
	return s
}

func (p *Printer) renderModule(x *exast.Module, indent int) string {
	var b strings.Builder
	b.WriteString("defmodule " + x.Name + " do\n")
	for i, item := range x.Body {
		if i > 0 {
			b.WriteString("\n")
			if _, ok := item.(*exast.Def); ok {
				b.WriteString("\n")
			}
		}
		b.WriteString(p.stmtLine(item, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderDef(x *exast.Def, indent int) string {
	kw := "def"
	switch {
	case x.Macro && x.Private:
		kw = "defmacrop"
	case x.Macro:
		kw = "defmacro"
	case x.Private:
		kw = "defp"
	}
	head := kw + " " + x.Name + "(" + p.patterns(x.Params, indent) + ")"
	if x.Guard != nil {
		head += " when " + p.render(x.Guard, indent, ctxValue)
	}
	return head + " do\n" + p.body(x.Body, indent+1) + "\n" + ind(indent) + "end"
}

func (p *Printer) renderBlock(x *exast.Block, indent int, c ctx) string {
	if len(x.Exprs) == 1 {
		return p.render(x.Exprs[0], indent, c)
	}
	if c == ctxStmt {
		// a nested multi-statement block flattens into its parent's lines
		lines := make([]string, len(x.Exprs))
		for i, e := range x.Exprs {
			s := p.render(e, indent, ctxStmt)
			if i > 0 {
				s = ind(indent) + s
			}
			lines[i] = s
		}
		return strings.Join(lines, "\n")
	}
	return p.iife(x, indent)
}

// iife wraps statements that sit in an expression slot where only a
// single expression is legal.
func (p *Printer) iife(n exast.Node, indent int) string {
	return "(fn ->\n" + p.body(n, indent+1) + "\n" + ind(indent) + "end).()"
}

func (p *Printer) renderIf(x *exast.If, indent int, c ctx) string {
	if isSimple(x.Cond) && isSimple(x.Then) && (x.Else == nil || isSimple(x.Else)) {
		s := "if " + p.render(x.Cond, indent, ctxValue) + ", do: " + p.render(x.Then, indent, ctxValue)
		if x.Else != nil {
			s += ", else: " + p.render(x.Else, indent, ctxValue)
		}
		return p.parenValue(c, s)
	}
	var b strings.Builder
	b.WriteString("if " + p.render(x.Cond, indent, ctxValue) + " do\n")
	b.WriteString(p.body(x.Then, indent+1))
	if x.Else != nil {
		b.WriteString("\n" + ind(indent) + "else\n")
		b.WriteString(p.body(x.Else, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return p.parenValue(c, b.String())
}

func (p *Printer) renderCase(x *exast.Case, indent int, c ctx) string {
	var b strings.Builder
	b.WriteString("case " + p.render(x.Subject, indent, ctxValue) + " do\n")
	b.WriteString(p.clauses(x.Clauses, indent+1))
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderCond(x *exast.Cond, indent int, c ctx) string {
	var b strings.Builder
	b.WriteString("cond do\n")
	for i, cl := range x.Clauses {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.clauseArm(p.render(cl.Cond, indent+1, ctxValue), nil, cl.Body, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderTry(x *exast.Try, indent int, c ctx) string {
	var b strings.Builder
	b.WriteString("try do\n")
	b.WriteString(p.body(x.Body, indent+1))
	if len(x.Rescue) > 0 {
		b.WriteString("\n" + ind(indent) + "rescue\n" + p.clauses(x.Rescue, indent+1))
	}
	if len(x.Catch) > 0 {
		b.WriteString("\n" + ind(indent) + "catch\n" + p.clauses(x.Catch, indent+1))
	}
	if len(x.Else) > 0 {
		b.WriteString("\n" + ind(indent) + "else\n" + p.clauses(x.Else, indent+1))
	}
	if x.After != nil {
		b.WriteString("\n" + ind(indent) + "after\n" + p.body(x.After, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderWith(x *exast.With, indent int, c ctx) string {
	var b strings.Builder
	b.WriteString("with ")
	for i, cl := range x.Clauses {
		if i > 0 {
			b.WriteString(",\n" + ind(indent) + "     ")
		}
		b.WriteString(p.pattern(cl.Pattern, indent) + " <- " + p.render(cl.Expr, indent, ctxValue))
	}
	b.WriteString(" do\n")
	b.WriteString(p.body(x.Body, indent+1))
	if len(x.Else) > 0 {
		b.WriteString("\n" + ind(indent) + "else\n" + p.clauses(x.Else, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderReceive(x *exast.Receive, indent int, c ctx) string {
	var b strings.Builder
	b.WriteString("receive do\n")
	b.WriteString(p.clauses(x.Clauses, indent+1))
	if x.AfterTimeout != nil {
		b.WriteString("\n" + ind(indent) + "after\n")
		b.WriteString(p.clauseArm(p.render(x.AfterTimeout, indent+1, ctxValue), nil, x.AfterBody, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderFor(x *exast.For, indent int, c ctx) string {
	var head strings.Builder
	head.WriteString("for ")
	for i, g := range x.Generators {
		if i > 0 {
			head.WriteString(", ")
		}
		head.WriteString(p.pattern(g.Pattern, indent) + " <- " + p.render(g.Enum, indent, ctxValue))
	}
	for _, f := range x.Filters {
		head.WriteString(", " + p.render(f, indent, ctxValue))
	}
	if x.Into != nil {
		head.WriteString(", into: " + p.render(x.Into, indent, ctxValue))
	}
	if isSimple(x.Body) {
		return head.String() + ", do: " + p.render(x.Body, indent, ctxValue)
	}
	return head.String() + " do\n" + p.body(x.Body, indent+1) + "\n" + ind(indent) + "end"
}

// renderWhile lowers the placeholder loop to a self-referential
// anonymous function fixed point. The loop name is minted fresh per
// occurrence so nested loops never collide.
func (p *Printer) renderWhile(x *exast.While, indent int, c ctx) string {
	if c != ctxStmt {
		wrapped := &exast.Block{Exprs: []exast.Node{x}}
		return p.iife(wrapped, indent)
	}
	name := p.minter.Fresh("loop")
	var b strings.Builder
	b.WriteString(name + " = fn " + name + " ->\n")
	b.WriteString(ind(indent+1) + "if " + p.render(x.Cond, indent+1, ctxValue) + " do\n")
	b.WriteString(p.body(x.Body, indent+2) + "\n")
	b.WriteString(ind(indent+2) + name + ".(" + name + ")\n")
	b.WriteString(ind(indent+1) + "else\n")
	b.WriteString(ind(indent+2) + ":done\n")
	b.WriteString(ind(indent+1) + "end\n")
	b.WriteString(ind(indent) + "end\n")
	b.WriteString(ind(indent) + name + ".(" + name + ")")
	return b.String()
}

func (p *Printer) renderFn(x *exast.Fn, indent int) string {
	if len(x.Clauses) == 1 {
		cl := x.Clauses[0]
		head := "fn " + p.patterns(cl.Params, indent)
		if cl.Guard != nil {
			head += " when " + p.render(cl.Guard, indent, ctxValue)
		}
		if cl.Guard == nil && isSimple(cl.Body) {
			return head + " -> " + p.render(cl.Body, indent, ctxValue) + " end"
		}
		return head + " ->\n" + p.body(cl.Body, indent+1) + "\n" + ind(indent) + "end"
	}
	var b strings.Builder
	b.WriteString("fn\n")
	for i, cl := range x.Clauses {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.clauseArm(p.patterns(cl.Params, indent+1), cl.Guard, cl.Body, indent+1))
	}
	b.WriteString("\n" + ind(indent) + "end")
	return b.String()
}

func (p *Printer) renderMatch(x *exast.Match, indent int, c ctx) string {
	s := p.render(x.LHS, indent, ctxValue) + " = " + p.render(x.RHS, indent, ctxMatchRHS)
	if c == ctxValue || c == ctxOperand {
		return "(" + s + ")"
	}
	return s
}

// clauses renders a `pattern -> body` arm list at the given indent.
func (p *Printer) clauses(cs []*exast.CaseClause, indent int) string {
	lines := make([]string, len(cs))
	for i, cl := range cs {
		lines[i] = p.clauseArm(p.pattern(cl.Pattern, indent), cl.Guard, cl.Body, indent)
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) clauseArm(head string, guard, body exast.Node, indent int) string {
	if guard != nil {
		head += " when " + p.render(guard, indent, ctxValue)
	}
	if isSimple(body) {
		return ind(indent) + head + " -> " + p.render(body, indent, ctxValue)
	}
	return ind(indent) + head + " ->\n" + p.body(body, indent+1)
}
