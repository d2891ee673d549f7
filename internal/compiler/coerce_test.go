package compiler

import (
	"testing"

	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

func TestCoerceForBinarySameKindIsNoop(t *testing.T) {
	env := newTestContext(t)
	l := StringValue(smt.StringSym("a"))
	r := StringValue(smt.StringSym("b"))
	cl, cr := env.c.CoerceForBinary(l, r)
	if cl != l || cr != r {
		t.Errorf("expected same-kind operands to pass through unchanged")
	}
}

func TestCoerceForBinaryWidensIntToString(t *testing.T) {
	env := newTestContext(t)
	l := StringValue(smt.StringSym("a"))
	r := IntValue(smt.IntSym("event.data.n"))
	cl, cr := env.c.CoerceForBinary(l, r)
	if cl.Kind != KindString || cr.Kind != KindString {
		t.Fatalf("expected both operands to end up KindString")
	}
	if want := `(str.from_int event.data.n)`; cr.Term.String() != want {
		t.Errorf("got %q, want %q", cr.Term.String(), want)
	}
	if typ, ok := env.c.Types.Lookup("event.data.n"); !ok || typ != jstype.String {
		t.Errorf("expected the widened operand's inferred type to be persisted as string, got %v (ok=%v)", typ, ok)
	}
}

func TestCoerceForBinaryWidensBoolToInt(t *testing.T) {
	env := newTestContext(t)
	l := BoolValue(smt.BoolSym("b"))
	r := IntValue(smt.IntVal(1))
	cl, cr := env.c.CoerceForBinary(l, r)
	if cl.Kind != KindInt {
		t.Fatalf("expected the bool operand to widen to KindInt")
	}
	if want := "(ite b 1 0)"; cl.Term.String() != want {
		t.Errorf("got %q, want %q", cl.Term.String(), want)
	}
	if cr.Kind != KindInt {
		t.Errorf("expected the other operand to stay KindInt")
	}
}

func TestCoerceForBinaryWidensBoolToString(t *testing.T) {
	env := newTestContext(t)
	l := BoolValue(smt.BoolSym("b"))
	r := StringValue(smt.StringSym("s"))
	cl, _ := env.c.CoerceForBinary(l, r)
	if cl.Kind != KindString {
		t.Fatalf("expected the bool operand to widen to KindString")
	}
	if want := `(ite b "true" "false")`; cl.Term.String() != want {
		t.Errorf("got %q, want %q", cl.Term.String(), want)
	}
}

// TestCoerceForBinaryEmptyStringIsNonEmptyCheck covers
// coerceTypesIfPossible's special case: comparing an uninterpreted int
// or bool symbol against the empty string literal is a non-empty
// check, not a real string coercion, so the literal becomes that
// operand's own zero value instead of the symbol widening to string.
func TestCoerceForBinaryEmptyStringIsNonEmptyCheck(t *testing.T) {
	env := newTestContext(t)
	n := IntValue(smt.IntSym("event.data.n"))
	empty := StringValue(smt.StringVal(""))
	cl, cr := env.c.CoerceForBinary(n, empty)
	if cl.Kind != KindInt || cr.Kind != KindInt {
		t.Fatalf("expected both operands to stay KindInt, got %v and %v", cl.Kind, cr.Kind)
	}
	if cr.Term.String() != "0" {
		t.Errorf("got %q, want the empty string literal rewritten to 0", cr.Term.String())
	}
	if _, ok := env.c.Types.Lookup("event.data.n"); ok {
		t.Errorf("expected the non-empty-check form not to persist an inferred string type")
	}

	b := BoolValue(smt.BoolSym("event.data.flag"))
	cl, cr = env.c.CoerceForBinary(empty, b)
	if cl.Kind != KindBool || cr.Kind != KindBool {
		t.Fatalf("expected both operands to stay KindBool, got %v and %v", cl.Kind, cr.Kind)
	}
	if cl.Term.String() != "false" {
		t.Errorf("got %q, want the empty string literal rewritten to false", cl.Term.String())
	}
}
