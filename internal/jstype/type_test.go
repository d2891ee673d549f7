package jstype

import "testing"

func TestTypeStringRoundTripsThroughUnmarshalText(t *testing.T) {
	for _, typ := range []Type{Undefined, String, Number, Boolean, Array, Object, JSON} {
		text, err := typ.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", typ, err)
		}
		var got Type
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != typ {
			t.Errorf("round trip of %v produced %v", typ, got)
		}
	}
}

func TestUnmarshalTextRejectsUnknownName(t *testing.T) {
	var typ Type
	if err := typ.UnmarshalText([]byte("symbol")); err == nil {
		t.Errorf("expected an error for an unrecognized type name")
	}
}

func TestConcreteDistinguishesUndefinedAndObject(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{String, true},
		{Number, true},
		{Boolean, true},
		{Array, true},
		{Undefined, false},
		{Object, false},
		{JSON, true},
	}
	for _, tc := range tests {
		if got := tc.typ.Concrete(); got != tc.want {
			t.Errorf("%v.Concrete() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestUnknownTypeStringsFallBackToPlaceholder(t *testing.T) {
	if got := Type(99).String(); got != "<unknown type>" {
		t.Errorf("got %q, want the unknown-type placeholder", got)
	}
}
