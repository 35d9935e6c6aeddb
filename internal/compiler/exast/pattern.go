package exast

// Pattern is the binding-position counterpart of Node: clause heads,
// match left-hand sides inside clauses, and function parameters. It is a
// separate, smaller closed union.
type Pattern interface {
	pattern()
}

// PVar binds a variable.
type PVar struct {
	Name string
}

// PLiteral matches a literal value. Lit must be a literal Node (IntLit,
// FloatLit, StringLit, BoolLit, NilLit, Atom).
type PLiteral struct {
	Lit Node
}

// PTuple destructures a tuple.
type PTuple struct {
	Elems []Pattern
}

// PList destructures a fixed-length list.
type PList struct {
	Elems []Pattern
}

// PCons destructures a list into head and tail.
type PCons struct {
	Head Pattern
	Tail Pattern
}

// PMapEntry is one key-pattern entry of a PMap.
type PMapEntry struct {
	Key   Node
	Value Pattern
}

// PMap destructures a map.
type PMap struct {
	Entries []PMapEntry
}

// PStruct destructures a struct literal.
type PStruct struct {
	Module  string
	Entries []PMapEntry
}

// PPin matches against the current value of an expression (^expr).
type PPin struct {
	Expr Node
}

// PWildcard matches anything without binding.
type PWildcard struct{}

// PBitstringSeg is a bit-string pattern segment sequence.
type PBitstringSeg struct {
	Segs []*BitSeg
}

func (*PVar) pattern()          {}
func (*PLiteral) pattern()      {}
func (*PTuple) pattern()        {}
func (*PList) pattern()         {}
func (*PCons) pattern()         {}
func (*PMap) pattern()          {}
func (*PStruct) pattern()       {}
func (*PPin) pattern()          {}
func (*PWildcard) pattern()     {}
func (*PBitstringSeg) pattern() {}
