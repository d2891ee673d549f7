package compiler

import (
	"fmt"

	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/regex"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// Config holds the per-process tunables exposed on the CLI (spec.md
// §9's Open Questions iii and the regex parser seam).
type Config struct {
	// SplitSegments bounds how many pieces String.prototype.split is
	// unrolled into: (SplitSegments-1) separators plus a remainder,
	// since the string theory has no native variable-length split.
	SplitSegments int
	// TaintRootPolicy decides whether an untyped identifier's path
	// should be assumed tainted-string (the common case: it descends
	// from the recorder's taint root) rather than left unsolvable.
	TaintRootPolicy *TaintRootPolicy
	// RegexParser converts a regex source string into a regex.Node;
	// defaults to regex.StdlibParser{} when nil.
	RegexParser regex.Parser
}

// DefaultConfig returns the Config a bare `solve` invocation uses.
func DefaultConfig() Config {
	return Config{
		SplitSegments:   4,
		TaintRootPolicy: MustTaintRootPolicy(`hasPrefix(path, "event")`),
		RegexParser:     regex.StdlibParser{},
	}
}

// Context is the per-Solve-call state every compiler routine threads
// explicitly: the set of symbols created so far, the declared/inferred
// types table, accumulated side constraints, the unsolvable set, and
// the helper-symbol name counter. None of this lives at package scope,
// so two Solve calls (even concurrent ones, from cmd/pmforced) never
// share state.
type Context struct {
	Config  Config
	Session *smt.Session
	Types   *jstype.Table

	symbols       map[string]*Value
	arrayLengths  map[string]smt.Term
	unsolvable    map[string]struct{}
	helperCounter int
}

func NewContext(cfg Config, session *smt.Session, types *jstype.Table) *Context {
	return &Context{
		Config:       cfg,
		Session:      session,
		Types:        types,
		symbols:      map[string]*Value{},
		arrayLengths: map[string]smt.Term{},
		unsolvable:   map[string]struct{}{},
	}
}

// MarkUnsolvable records identifier as one the compiler could not give
// a concrete symbolic value (spec.md §4.8 step 5: pinned to "" in the
// final assignment rather than treated as a compile error).
func (c *Context) MarkUnsolvable(identifier string) {
	c.unsolvable[identifier] = struct{}{}
}

// Unsolvable reports the full unsolvable set, for solver.Solve to pin.
func (c *Context) Unsolvable() map[string]struct{} {
	return c.unsolvable
}

// HelperSymbol returns a fresh smt.Term named with the __ignore_ prefix
// spec.md's glossary reserves for symbols excluded from the returned
// model (auxiliary variables the compiler needs but the caller doesn't
// care about, e.g. split's intermediate segments).
func (c *Context) HelperSymbol(hint string, sort smt.Sort) smt.Term {
	c.helperCounter++
	name := fmt.Sprintf("__ignore_%s_%d", hint, c.helperCounter)
	t := sym(name, sort)
	c.Session.Declare(t)
	return t
}

func sym(name string, sort smt.Sort) smt.Term {
	switch sort {
	case smt.SortString:
		return smt.StringSym(name)
	case smt.SortInt:
		return smt.IntSym(name)
	case smt.SortBool:
		return smt.BoolSym(name)
	case smt.SortArray:
		return smt.ArraySym(name)
	default:
		panic("compiler: unsupported helper sort")
	}
}

// ArrayLength returns the symbolic length int for an array identifier,
// creating and declaring it the first time it's requested.
func (c *Context) ArrayLength(identifier string) smt.Term {
	if t, ok := c.arrayLengths[identifier]; ok {
		return t
	}
	t := smt.IntSym(identifier + ".length")
	c.Session.Declare(t)
	c.arrayLengths[identifier] = t
	return t
}

// PinArrayLength declares identifier's length symbol (if not already)
// and asserts it equals n, for arrays whose size the compiler fixes
// outright rather than leaving open: split's bounded unroll and a
// literal array both know their element count up front, and any
// existential bound later built from ArrayLength needs that length
// actually constrained or it's unsound.
func (c *Context) PinArrayLength(identifier string, n int) {
	c.Session.Assert(smt.Eq(c.ArrayLength(identifier), smt.IntVal(n)))
}
