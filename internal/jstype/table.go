package jstype

import "sync"

// Table is a dotted-accessor-path -> Type map. It is used both for the
// types table the taint recorder supplies (read-only after Flatten) and
// for the per-solve inferred-types table the compiler augments as
// it coerces operands (§4.5), where the monotonic-upgrade invariant
// applies: once an identifier is assigned a non-empty concrete type, it
// is never silently downgraded.
type Table struct {
	mu sync.Mutex
	m  map[string]Type
	// set records which entries were ever explicitly assigned. Lookup
	// does not consult it: presence in m already distinguishes "known
	// undefined" from "never mentioned".
	set map[string]struct{}
}

func NewTable() *Table {
	return &Table{m: map[string]Type{}, set: map[string]struct{}{}}
}

// Lookup returns the type recorded for path, or (Undefined, false) if
// nothing has ever been recorded for it.
func (t *Table) Lookup(path string) (Type, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	typ, ok := t.m[path]
	return typ, ok
}

// Set records typ for path, honoring the monotonic-upgrade invariant:
// a path already holding a concrete type cannot be downgraded to
// Undefined or Object by a later call. Concrete-to-concrete reassignment
// (e.g. a later, more specific inference) is allowed.
func (t *Table) Set(path string, typ Type) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.m[path]; ok && existing.Concrete() && !typ.Concrete() {
		return
	}
	t.m[path] = typ
	t.set[path] = struct{}{}
}

// Range calls fn for every entry ever set. Iteration order is
// unspecified; callers that need determinism (e.g. emitting
// type-tagging constraints) should sort the returned paths themselves.
func (t *Table) Range(fn func(path string, typ Type)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range t.m {
		fn(k, v)
	}
}

func (t *Table) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]string, 0, len(t.m))
	for k := range t.m {
		keys = append(keys, k)
	}
	return keys
}
