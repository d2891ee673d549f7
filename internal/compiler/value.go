// Package compiler lifts a constraint.Node tree into a boolean smt.Term
// suitable for asserting against a solver session. It is the core: the
// recursive dispatcher (§4.2), the string/array member-function
// libraries (§4.3, §4.4), type inference and coercion (§4.5), and the
// lazy-truthy OR/AND normaliser (§4.6).
package compiler

import (
	"fmt"

	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// Kind tags the shape of a Value. Most kinds wrap a single smt.Term;
// TruthyOr and GuardedAnd are lazy — they defer to Truthy to decide
// their boolean reading only once one is actually needed, mirroring
// JS's short-circuit && / || (a bare `a || b` is not itself a boolean
// unless something forces it to be one).
type Kind int

const (
	KindUndefined Kind = iota
	KindString
	KindInt
	KindBool
	KindArray
	KindTruthyOr
	KindGuardedAnd
)

// Value is a compiled JS expression: a typed symbolic term, or one of
// the two lazy variants.
type Value struct {
	Kind Kind
	Term smt.Term // valid for String/Int/Bool/Array

	// IsJSON marks a KindString value as holding serialized JSON
	// (declared type "JSON"): typeof on it should report "object", as
	// if JSON.parse had already run, per the typeof/JSON.parse
	// widening scenario.
	IsJSON bool

	// KindTruthyOr: Left || Right.
	Left, Right *Value

	// KindGuardedAnd: Guard && And (And only matters when Guard is
	// truthy, but both must compile since either may carry side
	// constraints).
	Guard *Value
	And   *Value
}

func StringValue(t smt.Term) *Value { return &Value{Kind: KindString, Term: t} }
func IntValue(t smt.Term) *Value    { return &Value{Kind: KindInt, Term: t} }
func BoolValue(t smt.Term) *Value   { return &Value{Kind: KindBool, Term: t} }
func ArrayValue(t smt.Term) *Value  { return &Value{Kind: KindArray, Term: t} }
func Undefined() *Value             { return &Value{Kind: KindUndefined} }

func TruthyOr(l, r *Value) *Value       { return &Value{Kind: KindTruthyOr, Left: l, Right: r} }
func GuardedAnd(g, v *Value) *Value     { return &Value{Kind: KindGuardedAnd, Guard: g, And: v} }

// Type reports the JS type a Value presents as, for coercion purposes.
// Lazy values report Boolean, since every use of && / || outside of
// another && / || chain forces a boolean reading anyway.
func (v *Value) Type() jstype.Type {
	switch v.Kind {
	case KindString:
		if v.IsJSON {
			return jstype.JSON
		}
		return jstype.String
	case KindInt:
		return jstype.Number
	case KindBool, KindTruthyOr, KindGuardedAnd:
		return jstype.Boolean
	case KindArray:
		return jstype.Array
	default:
		return jstype.Undefined
	}
}

// Truthy renders v as a boolean smt.Term, applying JS ToBoolean
// semantics (createZ3ForBool): nonzero numbers, nonempty strings,
// arrays/objects (always truthy since they're references), and the
// lazy variants recursively.
func Truthy(v *Value) smt.Term {
	switch v.Kind {
	case KindBool:
		return v.Term
	case KindString:
		return smt.Ne(v.Term, smt.StringVal(""))
	case KindInt:
		return smt.Ne(v.Term, smt.IntVal(0))
	case KindArray:
		return smt.BoolVal(true)
	case KindTruthyOr:
		return smt.Or(Truthy(v.Left), Truthy(v.Right))
	case KindGuardedAnd:
		return smt.And(Truthy(v.Guard), Truthy(v.And))
	default:
		return smt.BoolVal(false)
	}
}

// AsTerm returns v's underlying term for a non-lazy Value, failing for
// TruthyOr/GuardedAnd (callers needing a boolean reading of those must
// call Truthy explicitly — forcing that choice at the call site is the
// point of keeping them a distinct Kind instead of eagerly reducing to
// Bool the moment they're built).
func (v *Value) AsTerm() (smt.Term, error) {
	switch v.Kind {
	case KindTruthyOr, KindGuardedAnd:
		return smt.Term{}, fmt.Errorf("compiler: lazy value used where a concrete term was expected")
	case KindUndefined:
		return smt.Term{}, fmt.Errorf("compiler: undefined value used where a concrete term was expected")
	default:
		return v.Term, nil
	}
}
