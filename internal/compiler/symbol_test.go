package compiler

import (
	"testing"

	"github.com/pmforce-sec/pmforce/internal/jstype"
)

func TestSymbolForUsesDeclaredType(t *testing.T) {
	env := newTestContext(t)
	env.c.Types.Set("event.data.cmd", jstype.String)

	v := env.c.SymbolFor("event.data.cmd")
	if v.Kind != KindString {
		t.Fatalf("got Kind=%v, want KindString", v.Kind)
	}
	if v.Term.Name != "event.data.cmd" {
		t.Errorf("got symbol name %q, want the identifier itself", v.Term.Name)
	}
}

func TestSymbolForIsMemoized(t *testing.T) {
	env := newTestContext(t)
	env.c.Types.Set("event.data.cmd", jstype.Number)

	first := env.c.SymbolFor("event.data.cmd")
	second := env.c.SymbolFor("event.data.cmd")
	if first != second {
		t.Errorf("expected the same *Value to be returned for repeated lookups")
	}
}

func TestSymbolForFallsBackToTaintRootPolicy(t *testing.T) {
	env := newTestContext(t)
	v := env.c.SymbolFor("event.data.payload")
	if v.Kind != KindString {
		t.Fatalf("got Kind=%v, want KindString for an untyped taint-root path", v.Kind)
	}
}

func TestSymbolForMarksUnsolvableOutsideTaintRoot(t *testing.T) {
	env := newTestContext(t)
	v := env.c.SymbolFor("window.location")
	if v.Kind != KindUndefined {
		t.Fatalf("got Kind=%v, want KindUndefined", v.Kind)
	}
	if _, ok := env.c.Unsolvable()["window.location"]; !ok {
		t.Errorf("expected window.location to be marked unsolvable")
	}
}

func TestSymbolForArrayDeclaresLength(t *testing.T) {
	env := newTestContext(t)
	env.c.Types.Set("event.data.items", jstype.Array)
	v := env.c.SymbolFor("event.data.items")
	if v.Kind != KindArray {
		t.Fatalf("got Kind=%v, want KindArray", v.Kind)
	}
	length := env.c.ArrayLength("event.data.items")
	if length.String() != "event.data.items.length" {
		t.Errorf("got %q, want the memoized length symbol", length.String())
	}
}
