package exast

// Meta is the opaque metadata side-channel carried by every Node: a
// property bag used to pass provenance and hints between passes without
// changing the node shape. Passes must tolerate a nil bag.
type Meta map[string]any

// Well-known metadata keys.
const (
	// KeyLocalNames maps source binding ids to clause-local names, set
	// by the builder on clause subtree roots and consumed by the
	// resolve-locals pass.
	KeyLocalNames = "local_names"

	// KeyLocalID is the source binding id recorded on Var leaves.
	KeyLocalID = "local_id"

	// KeyInline asks the printer to keep the expression on one line.
	KeyInline = "inline"

	// KeyErrorModule marks a module that represents an error/exception
	// type (defexception).
	KeyErrorModule = "error_module"

	// KeyUnusedPrivate lists private function names that are never
	// called, for suppression directives.
	KeyUnusedPrivate = "unused_private"

	// KeyUnrolled marks a block produced by unrolling a source loop,
	// set by the builder from the front-end hint and consumed by the
	// comprehension-reconstruction pass.
	KeyUnrolled = "unrolled"
)

// With returns a copy of the bag with key set. Copy-on-write keeps bags
// shareable between the old and the rebuilt node.
func (m Meta) With(key string, value any) Meta {
	out := make(Meta, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

// Bool reports whether key is present and true.
func (m Meta) Bool(key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key].(bool)
	return ok && v
}

// Int returns the int value for key, and whether it was present.
func (m Meta) Int(key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key].(int)
	return v, ok
}

// LocalNames returns the id-to-name map for key KeyLocalNames, or nil.
func (m Meta) LocalNames() map[int]string {
	if m == nil {
		return nil
	}
	v, _ := m[KeyLocalNames].(map[int]string)
	return v
}

// Strings returns the string-slice value for key, or nil.
func (m Meta) Strings(key string) []string {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]string)
	return v
}
