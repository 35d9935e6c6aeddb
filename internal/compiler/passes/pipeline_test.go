package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exalt-lang/exalt/internal/compiler/exast"
)

// test helpers shared by the per-pass tests

func v(name string) *exast.Var { return &exast.Var{Name: name} }

func iv(n int64) *exast.IntLit { return &exast.IntLit{Value: n} }

func bind(name string, rhs exast.Node) *exast.Match {
	return &exast.Match{LHS: v(name), RHS: rhs}
}

func block(exprs ...exast.Node) *exast.Block { return &exast.Block{Exprs: exprs} }

func TestConfigEnabled(t *testing.T) {
	var nilCfg Config
	assert.True(t, nilCfg.Enabled(DropNilInit))

	cfg := Config{DropNilInit: false}
	assert.False(t, cfg.Enabled(DropNilInit))
	assert.True(t, cfg.Enabled(CollapseTempBinds))
}

func TestPipelineOrder(t *testing.T) {
	p := NewPipeline(nil, nil)
	got := make([]string, 0, len(p.Passes()))
	for _, pass := range p.Passes() {
		got = append(got, pass.Name)
	}
	want := []string{
		ResolveLocals,
		RebuildTaggedCase,
		CollapseTempBinds,
		LiftCondReassign,
		DropNilInit,
		ImmutableUpdates,
		BindDiscardedUpdates,
		LiftLiteralEffects,
		RebuildComprehensions,
		UnderscoreHygiene,
		InjectImports,
	}
	assert.Equal(t, want, got)
}

func TestPipelineSkipsDisabledPasses(t *testing.T) {
	// with nil-init removal disabled the dead initialization survives
	tree := func() exast.Node {
		return &exast.Def{
			Name:   "f",
			Params: []exast.Pattern{},
			Body: block(
				bind("x", &exast.NilLit{}),
				bind("x", iv(5)),
				v("x"),
			),
		}
	}

	full := NewPipeline(nil, nil).Transform(tree())
	require.IsType(t, &exast.Def{}, full)
	assert.Len(t, full.(*exast.Def).Body.(*exast.Block).Exprs, 2)

	partial := NewPipeline(Config{DropNilInit: false}, nil).Transform(tree())
	assert.Len(t, partial.(*exast.Def).Body.(*exast.Block).Exprs, 3)
}
