package smt

import (
	"context"
	"fmt"
	"strings"
)

// Status is the three-way outcome of spec.md §7's "Solver outcomes"
// tier: unsat and unknown are reported uniformly as no solution, sat
// always yields a full assignment.
type Status int

const (
	StatusUnsat Status = iota
	StatusSat
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Solver is the thin interface onto the external SMT engine (spec.md
// §1, §6). A Session built on top of it is the declare/assert/check-sat
// bookkeeping a single top-level Solve call needs; Session itself holds
// no package-level state, so nothing leaks between solve calls (spec.md
// §5, §9).
type Solver interface {
	// Run sends script (a full SMT-LIB2 program, ending in
	// (check-sat) and any (get-value ...) commands) to the backend and
	// returns its raw stdout.
	Run(ctx context.Context, script string) (string, error)
}

// Session accumulates declarations and assertions for one top-level
// Solve call and drives a Solver backend.
type Session struct {
	backend  Solver
	declared map[string]Sort
	order    []string // declaration order, for deterministic scripts
	asserts  []Term
}

func NewSession(backend Solver) *Session {
	return &Session{backend: backend, declared: map[string]Sort{}}
}

// Declare registers t (which must be a free symbol, t.Name != "") so it
// is emitted as a (declare-const ...)/(declare-fun ...) before the
// asserts. Declaring the same name twice with the same sort is a no-op;
// with a different sort is a programmer error (identifiers are typed
// once per solve, per the inferred-types monotonicity invariant).
func (s *Session) Declare(t Term) {
	if t.Name == "" {
		return
	}
	if existing, ok := s.declared[t.Name]; ok {
		if existing != t.Sort {
			panic(fmt.Sprintf("smt: %s redeclared with a different sort", t.Name))
		}
		return
	}
	s.declared[t.Name] = t.Sort
	s.order = append(s.order, t.Name)
}

// Assert appends a boolean term to the top-level conjunction (spec.md
// §3's "Global side-constraints": an ordered, append-only list).
func (s *Session) Assert(t Term) {
	s.asserts = append(s.asserts, t)
}

// CheckSat renders the declarations and assertions as SMT-LIB2, invokes
// the backend, and parses its sat/unsat/unknown answer.
func (s *Session) CheckSat(ctx context.Context) (Status, error) {
	script := s.render(nil)
	out, err := s.backend.Run(ctx, script)
	if err != nil {
		return StatusUnknown, fmt.Errorf("smt: check-sat: %w", err)
	}
	return parseStatus(out)
}

// Values re-runs the whole script with a trailing (get-value (...))
// command for each requested symbol and returns its model value as an
// SMT-LIB2 s-expression string per symbol name, keyed by the symbol's
// rendered (possibly pipe-quoted) form.
func (s *Session) Values(ctx context.Context, names []string) (map[string]SExpr, error) {
	script := s.render(names)
	out, err := s.backend.Run(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("smt: get-value: %w", err)
	}
	status, rest, err := splitStatus(out)
	if err != nil {
		return nil, err
	}
	if status != StatusSat {
		return nil, fmt.Errorf("smt: get-value requested on a %v result", status)
	}
	return parseGetValue(rest)
}

func (s *Session) render(getValueNames []string) string {
	var b strings.Builder
	b.WriteString("(set-logic ALL)\n")
	for _, name := range s.order {
		sort := s.declared[name]
		b.WriteString("(declare-const ")
		b.WriteString(quoteSym(name))
		b.WriteString(" ")
		b.WriteString(sort.smtlib())
		b.WriteString(")\n")
	}
	for _, a := range s.asserts {
		b.WriteString("(assert ")
		b.WriteString(a.expr)
		b.WriteString(")\n")
	}
	b.WriteString("(check-sat)\n")
	if len(getValueNames) > 0 {
		b.WriteString("(get-value (")
		for i, n := range getValueNames {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(quoteSym(n))
		}
		b.WriteString("))\n")
	}
	return b.String()
}
