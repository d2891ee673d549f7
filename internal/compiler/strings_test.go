package compiler

import (
	"testing"

	"github.com/pmforce-sec/pmforce/internal/smt"
)

func TestStringIndexOf(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	args := []*Value{StringValue(smt.StringVal("needle"))}
	v, err := env.c.callMemberFunction(base, "indexOf", args)
	if err != nil {
		t.Fatalf("callMemberFunction: %v", err)
	}
	if v.Kind != KindInt {
		t.Fatalf("got Kind=%v, want KindInt", v.Kind)
	}
	if want := `(str.indexof s "needle" 0)`; v.Term.String() != want {
		t.Errorf("got %q, want %q", v.Term.String(), want)
	}
}

func TestStringStartsWithEndsWithConjunction(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))

	starts, err := env.c.callMemberFunction(base, "startsWith", []*Value{StringValue(smt.StringVal("https://"))})
	if err != nil {
		t.Fatalf("startsWith: %v", err)
	}
	ends, err := env.c.callMemberFunction(base, "endsWith", []*Value{StringValue(smt.StringVal(".evil.example"))})
	if err != nil {
		t.Fatalf("endsWith: %v", err)
	}

	both := CompileLogical("&&", starts, ends)
	asserted := Truthy(both).String()
	if want := `(and (str.prefixof "https://" s) (str.suffixof ".evil.example" s))`; asserted != want {
		t.Errorf("got %q, want %q", asserted, want)
	}
}

func TestStringIncludesAndOriginConjunction(t *testing.T) {
	env := newTestContext(t)
	origin := StringValue(smt.StringSym("event.origin"))
	includes, err := env.c.callMemberFunction(StringValue(smt.StringSym("event.data.cmd")), "includes", []*Value{StringValue(smt.StringVal("eval"))})
	if err != nil {
		t.Fatalf("includes: %v", err)
	}
	eq, err := env.c.ApplyBinaryOp("===", origin, StringValue(smt.StringVal("https://trusted.example")))
	if err != nil {
		t.Fatalf("ApplyBinaryOp: %v", err)
	}
	both := CompileLogical("&&", eq, includes)
	got := Truthy(both).String()
	want := `(and (= event.origin "https://trusted.example") (str.contains event.data.cmd "eval"))`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringSplitThenIndexEquality(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	arr, err := env.c.callMemberFunction(base, "split", []*Value{StringValue(smt.StringVal(","))})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if arr.Kind != KindArray {
		t.Fatalf("got Kind=%v, want KindArray", arr.Kind)
	}
	elem, err := env.c.ArrayElement(arr, 1)
	if err != nil {
		t.Fatalf("ArrayElement: %v", err)
	}
	eq, err := env.c.ApplyBinaryOp("===", elem, StringValue(smt.StringVal("admin")))
	if err != nil {
		t.Fatalf("ApplyBinaryOp: %v", err)
	}
	if eq.Kind != KindBool {
		t.Fatalf("got Kind=%v, want KindBool", eq.Kind)
	}
	// split must have asserted boundary/segment constraints tying the
	// helper array back to s.
	env.assertAsserted(t, "str.indexof")
	env.assertAsserted(t, "str.substr")
}

// TestStringSplitPinsLengthAndSegmentShape covers the soundness
// constraints a bounded split must carry: every segment asserted
// non-empty, the final segment asserted to not itself contain the
// separator, and the helper array's declared length pinned to the
// configured segment count so a later existential bound (array
// includes/indexOf) can't place a needle outside an actual segment.
func TestStringSplitPinsLengthAndSegmentShape(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	arr, err := env.c.callMemberFunction(base, "split", []*Value{StringValue(smt.StringVal(","))})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	env.assertAsserted(t, arr.Term.Name+".length 4)")
	env.assertAsserted(t, `(not (= `)
	env.assertAsserted(t, `""))`)
}

func TestStringMatchTranslatesRegexLiteral(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	v, err := env.c.callMemberFunction(base, "match", []*Value{StringValue(smt.StringVal("^a+$"))})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if v.Kind != KindBool {
		t.Fatalf("got Kind=%v, want KindBool", v.Kind)
	}
	if want := "str.in_re"; !containsSubstr(v.Term.String(), want) {
		t.Errorf("got %q, want it to contain %q", v.Term.String(), want)
	}
}

func TestStringMatchRejectsNonLiteralPattern(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	_, err := env.c.callMemberFunction(base, "match", []*Value{StringValue(smt.StringSym("pattern"))})
	if err == nil {
		t.Errorf("expected an error matching against a non-literal pattern")
	}
}

func TestStringToLowerCaseIsPassthrough(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	v, err := env.c.callMemberFunction(base, "toLowerCase", nil)
	if err != nil {
		t.Fatalf("toLowerCase: %v", err)
	}
	if v != base {
		t.Errorf("expected toLowerCase to pass the operand through unchanged")
	}
}

func TestStringRepeatIsUnsupported(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	_, err := env.c.callMemberFunction(base, "repeat", []*Value{IntValue(smt.IntVal(3))})
	if err == nil {
		t.Errorf("expected repeat to be unsupported")
	}
}

func TestUnrecognizedStringMemberFunction(t *testing.T) {
	env := newTestContext(t)
	base := StringValue(smt.StringSym("s"))
	_, err := env.c.callMemberFunction(base, "normalize", nil)
	if err == nil {
		t.Errorf("expected an error for an unrecognized string member function")
	}
}

func containsSubstr(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
