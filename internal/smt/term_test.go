package smt

import "testing"

type termTest struct {
	Name string
	Got  Term
	Want string
}

func TestTermRendering(t *testing.T) {
	tests := []termTest{
		{
			Name: "string literal escapes quotes",
			Got:  StringVal(`a"b`),
			Want: `"a""b"`,
		},
		{
			Name: "negative int literal",
			Got:  IntVal(-3),
			Want: "(- 3)",
		},
		{
			Name: "concat",
			Got:  Concat(StringVal("a"), StringVal("b")),
			Want: `(str.++ "a" "b")`,
		},
		{
			Name: "indexof",
			Got:  IndexOf(StringSym("s"), StringVal("x"), IntVal(0)),
			Want: `(str.indexof s "x" 0)`,
		},
		{
			Name: "select over store",
			Got:  Select(Store(ArrayConst(StringVal("")), IntVal(0), StringVal("a")), IntVal(0)),
			Want: `(select (store ((as const (Array Int String)) "") 0 "a") 0)`,
		},
		{
			Name: "and collapses a single operand",
			Got:  And(BoolVal(true)),
			Want: "true",
		},
		{
			Name: "and of zero operands is true",
			Got:  And(),
			Want: "true",
		},
		{
			Name: "or of zero operands is false",
			Got:  Or(),
			Want: "false",
		},
		{
			Name: "ite",
			Got:  Ite(BoolVal(true), IntVal(1), IntVal(2)),
			Want: "(ite true 1 2)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			if got := tc.Got.String(); got != tc.Want {
				t.Errorf("got %q, want %q", got, tc.Want)
			}
		})
	}
}

func TestQuoteSymLeavesDottedNamesBareAndPipesBrackets(t *testing.T) {
	s := StringSym("event.data.length")
	if got, want := s.String(), "event.data.length"; got != want {
		t.Errorf("dotted names are in the simple charset: got %q, want %q", got, want)
	}

	s = StringSym("array[0]")
	if got, want := s.String(), "|array[0]|"; got != want {
		t.Errorf("bracketed names need pipe-quoting: got %q, want %q", got, want)
	}
}

func TestIsHelper(t *testing.T) {
	h := IntSym("__ignore_split_0")
	if !h.IsHelper() {
		t.Errorf("expected __ignore_ prefixed symbol to be a helper")
	}
	s := IntSym("event.data.length")
	if s.IsHelper() {
		t.Errorf("expected a plain symbol not to be a helper")
	}
}

func TestBitwiseRoundTripsThroughBitVectors(t *testing.T) {
	got := BAnd(IntVal(6), IntVal(3)).String()
	want := `(bv2int (bvand ((_ int2bv 32) 6) ((_ int2bv 32) 3)))`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
