package smt

import (
	"context"
	"strings"
	"testing"
)

// fakeSolver returns a canned response and records the last script it
// was asked to run, so tests can assert on the rendered SMT-LIB2
// without shelling out to a real solver.
type fakeSolver struct {
	response string
	lastRun  string
}

func (f *fakeSolver) Run(_ context.Context, script string) (string, error) {
	f.lastRun = script
	return f.response, nil
}

func TestSessionRendersDeclarationsInOrder(t *testing.T) {
	f := &fakeSolver{response: "sat"}
	s := NewSession(f)

	x := StringSym("x")
	y := IntSym("y")
	s.Declare(x)
	s.Declare(y)
	s.Declare(x) // redeclaring the same symbol/sort is a no-op

	s.Assert(Eq(x, StringVal("a")))
	s.Assert(Gt(y, IntVal(0)))

	status, err := s.CheckSat(context.Background())
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if status != StatusSat {
		t.Errorf("got %v, want sat", status)
	}

	want := []string{
		"(declare-const x String)",
		"(declare-const y Int)",
		`(assert (= x "a"))`,
		"(assert (> y 0))",
		"(check-sat)",
	}
	for _, line := range want {
		if !strings.Contains(f.lastRun, line) {
			t.Errorf("rendered script missing %q, got:\n%s", line, f.lastRun)
		}
	}
	if strings.Index(f.lastRun, "(declare-const x") > strings.Index(f.lastRun, "(declare-const y") {
		t.Errorf("declarations out of order:\n%s", f.lastRun)
	}
}

func TestSessionDeclareConflictingSortPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on conflicting redeclaration")
		}
	}()
	s := NewSession(&fakeSolver{})
	s.Declare(StringSym("x"))
	s.Declare(IntSym("x"))
}

func TestSessionValuesParsesGetValueResponse(t *testing.T) {
	f := &fakeSolver{response: "sat\n((x \"hello\") (y 3))\n"}
	s := NewSession(f)
	s.Declare(StringSym("x"))
	s.Declare(IntSym("y"))

	values, err := s.Values(context.Background(), []string{"x", "y"})
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if !strings.Contains(f.lastRun, "(get-value (x y))") {
		t.Errorf("expected a trailing get-value command, got:\n%s", f.lastRun)
	}

	got, err := DecodeString(values["x"])
	if err != nil || got != "hello" {
		t.Errorf("x: got (%q, %v), want (\"hello\", nil)", got, err)
	}
	n, err := DecodeInt(values["y"])
	if err != nil || n != 3 {
		t.Errorf("y: got (%d, %v), want (3, nil)", n, err)
	}
}

func TestSessionValuesRejectsUnsat(t *testing.T) {
	f := &fakeSolver{response: "unsat"}
	s := NewSession(f)
	if _, err := s.Values(context.Background(), []string{"x"}); err == nil {
		t.Errorf("expected an error requesting values on an unsat result")
	}
}
