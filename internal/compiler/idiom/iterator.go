package idiom

import (
	"github.com/exalt-lang/exalt/internal/compiler/exast"
	"github.com/exalt-lang/exalt/internal/compiler/typed"
)

// Manual external-iterator protocol: the front-end rewrites key-value
// iteration into has-next/next chains over an explicit iterator object:
//
//	{ var it = coll.keyValueIterator();
//	  while (it.hasNext()) { var kv = it.next(); <body using kv.key / kv.value> } }
//
// and the value-only form using iterator()/next(). Both stand in for the
// target language's native iteration and lower to a comprehension over
// the collection itself.

// IteratorFields are the extracted parts of an iterator-protocol loop.
type IteratorFields struct {
	Collection typed.Expr
	KeyValue   bool // keyValueIterator vs iterator
	IterID     int
	KVName     string
	KVID       int
	Body       []typed.Expr // loop body after the next() binding
}

// IsIteratorLoop reports whether e is an iterator-protocol loop.
func IsIteratorLoop(e typed.Expr) bool {
	_, ok := ExtractIteratorLoop(e)
	return ok
}

// ExtractIteratorLoop returns the iterator fields, or ok=false when the
// shape does not match.
func ExtractIteratorLoop(e typed.Expr) (IteratorFields, bool) {
	block, ok := e.(*typed.Block)
	if !ok || len(block.List) != 2 {
		return IteratorFields{}, false
	}

	decl, ok := block.List[0].(*typed.VarDecl)
	if !ok || decl.Init == nil {
		return IteratorFields{}, false
	}
	coll, kindKV, ok := iteratorCall(decl.Init)
	if !ok {
		return IteratorFields{}, false
	}

	loop, ok := block.List[1].(*typed.While)
	if !ok {
		return IteratorFields{}, false
	}
	if !isMethodCallOn(loop.Cond, decl.ID, "hasNext") {
		return IteratorFields{}, false
	}

	body, ok := loop.Body.(*typed.Block)
	if !ok || len(body.List) < 1 {
		return IteratorFields{}, false
	}
	kvDecl, ok := body.List[0].(*typed.VarDecl)
	if !ok || kvDecl.Init == nil || !isMethodCallOn(kvDecl.Init, decl.ID, "next") {
		return IteratorFields{}, false
	}
	rest := body.List[1:]
	// The iterator must not leak into the body beyond the next() call.
	for _, s := range rest {
		if refersTo(s, decl.ID) {
			return IteratorFields{}, false
		}
	}

	return IteratorFields{
		Collection: coll,
		KeyValue:   kindKV,
		IterID:     decl.ID,
		KVName:     kvDecl.Name,
		KVID:       kvDecl.ID,
		Body:       rest,
	}, true
}

// TransformIteratorLoop lowers the protocol loop to native iteration:
//
//	for {k, v} <- coll do <body> end     (key-value form)
//	for elem <- coll do <body> end       (value form)
//
// In the key-value form, accesses kv.key and kv.value rewrite to the
// bound pattern variables.
func TransformIteratorLoop(f IteratorFields, ctx *Context) exast.Node {
	body := make([]exast.Node, len(f.Body))
	for i, s := range f.Body {
		body[i] = ctx.Lower(s)
	}
	var bodyNode exast.Node
	if len(body) == 1 {
		bodyNode = body[0]
	} else {
		bodyNode = &exast.Block{Exprs: body}
	}

	kv := ctx.Rename(f.KVName)
	if !f.KeyValue {
		return &exast.For{
			Generators: []*exast.Generator{
				{Pattern: &exast.PVar{Name: kv}, Enum: ctx.Lower(f.Collection)},
			},
			Body: bodyNode,
		}
	}

	// Body references still carry the raw source name at this point;
	// the binding id is the only stable handle on the kv variable.
	keyVar := kv + "_key"
	valueVar := kv + "_value"
	bodyNode = exast.Rewrite(bodyNode, func(n exast.Node) exast.Node {
		fa, ok := n.(*exast.FieldAccess)
		if !ok {
			return n
		}
		obj, ok := fa.Object.(*exast.Var)
		if !ok {
			return n
		}
		if id, tracked := obj.Meta().Int(exast.KeyLocalID); !tracked || id != f.KVID {
			return n
		}
		switch fa.Field {
		case "key":
			return &exast.Var{Name: keyVar}
		case "value":
			return &exast.Var{Name: valueVar}
		}
		return n
	})
	return &exast.For{
		Generators: []*exast.Generator{
			{
				Pattern: &exast.PTuple{Elems: []exast.Pattern{
					&exast.PVar{Name: keyVar},
					&exast.PVar{Name: valueVar},
				}},
				Enum: ctx.Lower(f.Collection),
			},
		},
		Body: bodyNode,
	}
}

// iteratorCall matches `coll.iterator()` / `coll.keyValueIterator()`.
func iteratorCall(e typed.Expr) (coll typed.Expr, keyValue, ok bool) {
	call, isCall := e.(*typed.Call)
	if !isCall || len(call.Args) != 0 {
		return nil, false, false
	}
	field, isField := call.Target.(*typed.Field)
	if !isField {
		return nil, false, false
	}
	switch field.Name {
	case "keyValueIterator":
		return field.Object, true, true
	case "iterator":
		return field.Object, false, true
	}
	return nil, false, false
}

// isMethodCallOn matches `local.name()` for the given binding id.
func isMethodCallOn(e typed.Expr, id int, name string) bool {
	call, ok := e.(*typed.Call)
	if !ok || len(call.Args) != 0 {
		return false
	}
	field, ok := call.Target.(*typed.Field)
	if !ok || field.Name != name {
		return false
	}
	return isLocal(field.Object, id)
}
