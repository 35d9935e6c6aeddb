// Package compiler wires the compilation stages for one unit: decode the
// typed input tree, lower it to the intermediate form, run the rewrite
// pipeline, print target source.
package compiler

import (
	"github.com/exalt-lang/exalt/exerr"
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/lower"
	"github.com/exalt-lang/exalt/internal/compiler/names"
	"github.com/exalt-lang/exalt/internal/compiler/passes"
	"github.com/exalt-lang/exalt/internal/compiler/printer"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// TreeDecoder decodes a serialized typed tree into a compilation unit.
type TreeDecoder interface {
	Decode(input []byte) (*typed.Unit, error)
}

// UnitLowerer builds the intermediate module for a typed unit.
type UnitLowerer interface {
	LowerUnit(u *typed.Unit) (*exast.Module, error)
}

// Transformer rewrites a lowered tree into its final shape.
type Transformer interface {
	Transform(root exast.Node) exast.Node
}

// SourcePrinter renders a final tree as target source text.
type SourcePrinter interface {
	Print(n exast.Node) (string, error)
}

// Compiler orchestrates the full unit compilation.
type Compiler struct {
	decoder     TreeDecoder
	lowerer     UnitLowerer
	transformer Transformer
	printer     SourcePrinter
}

// NewCompiler creates a Compiler with explicit stage implementations.
func NewCompiler(
	decoder TreeDecoder,
	lowerer UnitLowerer,
	transformer Transformer,
	prn SourcePrinter,
) *Compiler {
	return &Compiler{
		decoder:     decoder,
		lowerer:     lowerer,
		transformer: transformer,
		printer:     prn,
	}
}

// New creates a Compiler with the default stages. The fresh-name minter
// is shared between the pipeline and the printer so synthesized names
// stay unique across the unit.
func New(cfg *Config) *Compiler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	minter := names.NewMinter()
	return NewCompiler(
		jsonTreeDecoder{},
		lower.New(nil, minter),
		passes.NewPipeline(cfg.Passes, minter),
		printer.New(minter),
	)
}

// Compile executes the full pipeline on one serialized unit. Internal
// defects raised by any stage surface as the returned error.
func (c *Compiler) Compile(input []byte) (out string, err error) {
	defer exerr.Recover(&err)

	unit, err := c.decoder.Decode(input)
	if err != nil {
		return "", err
	}

	mod, err := c.lowerer.LowerUnit(unit)
	if err != nil {
		return "", err
	}

	return c.printer.Print(c.transformer.Transform(mod))
}

type jsonTreeDecoder struct{}

func (jsonTreeDecoder) Decode(input []byte) (*typed.Unit, error) {
	return typed.Decode(input)
}

var _ TreeDecoder = jsonTreeDecoder{}
var _ UnitLowerer = (*lower.Lowerer)(nil)
var _ Transformer = (*passes.Pipeline)(nil)
var _ SourcePrinter = (*printer.Printer)(nil)
