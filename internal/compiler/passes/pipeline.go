// Package passes implements the ordered tree-rewrite pipeline that
// converts mechanically lowered trees into idiomatic target-language
// shapes. Every pass is a pure Node -> Node function; the only shared
// state across passes is the unit's fresh-name minter.
package passes

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/names"
)

// Pass is one named rewrite of the pipeline.
type Pass struct {
	Name    string
	Enabled bool
	Run     func(exast.Node) exast.Node
}

// Config maps pass names to enablement. A nil map enables every pass;
// missing entries default to enabled.
type Config map[string]bool

// Enabled reports whether the named pass should run.
func (c Config) Enabled(name string) bool {
	if c == nil {
		return true
	}
	v, ok := c[name]
	return !ok || v
}

// Pipeline holds the ordered pass list for one compilation unit.
type Pipeline struct {
	passes []Pass
	minter *names.Minter
}

// Pass names, in default pipeline order. The order carries dependencies:
// locals must be resolved before any pass compares variable names,
// tagged-case reconstruction must see the elem() extractions that
// temp-binding collapse could fold away, effect lifting runs after the
// rewrites that introduce literal elements, and hygiene runs second to
// last so that it sees every binding the earlier passes created.
const (
	ResolveLocals         = "resolve-locals"
	RebuildTaggedCase     = "rebuild-tagged-case"
	CollapseTempBinds     = "collapse-temp-binds"
	LiftCondReassign      = "lift-cond-reassign"
	DropNilInit           = "drop-nil-init"
	ImmutableUpdates      = "immutable-updates"
	BindDiscardedUpdates  = "bind-discarded-updates"
	LiftLiteralEffects    = "lift-literal-effects"
	RebuildComprehensions = "rebuild-comprehensions"
	UnderscoreHygiene     = "underscore-hygiene"
	InjectImports         = "inject-imports"
)

// NewPipeline builds the default pipeline with cfg enablement and the
// unit's name minter. A nil minter gets a fresh one.
func NewPipeline(cfg Config, minter *names.Minter) *Pipeline {
	if minter == nil {
		minter = names.NewMinter()
	}
	p := &Pipeline{minter: minter}
	add := func(name string, run func(exast.Node) exast.Node) {
		p.passes = append(p.passes, Pass{Name: name, Enabled: cfg.Enabled(name), Run: run})
	}

	add(ResolveLocals, resolveLocals)
	add(RebuildTaggedCase, rebuildTaggedCase)
	add(CollapseTempBinds, collapseTempBinds)
	add(LiftCondReassign, liftCondReassign)
	add(DropNilInit, dropNilInit)
	add(ImmutableUpdates, immutableUpdates)
	add(BindDiscardedUpdates, bindDiscardedUpdates)
	add(LiftLiteralEffects, liftLiteralEffects)
	add(RebuildComprehensions, rebuildComprehensions)
	add(UnderscoreHygiene, underscoreHygiene)
	add(InjectImports, injectImports)
	return p
}

// Passes returns the pipeline's pass list in order.
func (p *Pipeline) Passes() []Pass {
	out := make([]Pass, len(p.passes))
	copy(out, p.passes)
	return out
}

// Minter returns the unit's fresh-name minter, shared with the printer.
func (p *Pipeline) Minter() *names.Minter {
	return p.minter
}

// Transform folds every enabled pass over the root, in order.
func (p *Pipeline) Transform(root exast.Node) exast.Node {
	for _, pass := range p.passes {
		if !pass.Enabled {
			continue
		}
		root = pass.Run(root)
	}
	return root
}
