package compiler

import (
	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// CoerceForBinary implements §4.5: before a binary/comparison op is
// applied, widen l and r to a common representable type. JS's actual
// coercion lattice is far larger than what our theory can represent;
// we cover the string/int, bool/int and bool/string pairings (in either
// operand order) this backend reasons about, and otherwise leave operands untouched
// (letting the op dispatcher reject the combination it can't handle).
// Per coerceTypesIfPossible, widening an uninterpreted operand also
// persists the inferred type back onto the types table, and a bare
// `!= ""` against an uninterpreted bool/int symbol is treated as a
// non-empty check rather than an actual string coercion.
func (c *Context) CoerceForBinary(l, r *Value) (*Value, *Value) {
	if l.Kind == r.Kind {
		return l, r
	}

	if s, ok := literalStringOf(r); ok && s == "" && l.Term.Name != "" {
		if zero, ok := nonEmptyCheckZero(l); ok {
			return l, zero
		}
	}
	if s, ok := literalStringOf(l); ok && s == "" && r.Term.Name != "" {
		if zero, ok := nonEmptyCheckZero(r); ok {
			return zero, r
		}
	}

	switch {
	case l.Kind == KindString && r.Kind == KindInt:
		c.recordInferredType(r, jstype.String)
		return l, StringValue(smt.IntToStr(r.Term))
	case l.Kind == KindInt && r.Kind == KindString:
		c.recordInferredType(l, jstype.String)
		return StringValue(smt.IntToStr(l.Term)), r
	case l.Kind == KindBool && r.Kind == KindInt:
		c.recordInferredType(l, jstype.Number)
		return boolToInt(l), r
	case l.Kind == KindInt && r.Kind == KindBool:
		c.recordInferredType(r, jstype.Number)
		return l, boolToInt(r)
	case l.Kind == KindBool && r.Kind == KindString:
		c.recordInferredType(l, jstype.String)
		return StringValue(boolToStringTerm(l)), r
	case l.Kind == KindString && r.Kind == KindBool:
		c.recordInferredType(r, jstype.String)
		return l, StringValue(boolToStringTerm(r))
	default:
		return l, r
	}
}

// recordInferredType persists typ for v's declared identifier, for
// operands that are free symbols rather than compound expressions or
// literals.
func (c *Context) recordInferredType(v *Value, typ jstype.Type) {
	if v.Term.Name != "" {
		c.Types.Set(v.Term.Name, typ)
	}
}

// nonEmptyCheckZero returns the zero value v's own kind would compare
// equal to, for the `x != ""` special case: comparing an uninterpreted
// bool or int symbol against the empty string literal isn't a real
// type coercion, it's the recorder's way of expressing a non-empty (or
// non-zero/truthy) guard.
func nonEmptyCheckZero(v *Value) (*Value, bool) {
	switch v.Kind {
	case KindBool:
		return BoolValue(smt.BoolVal(false)), true
	case KindInt:
		return IntValue(smt.IntVal(0)), true
	default:
		return nil, false
	}
}

func boolToInt(v *Value) *Value {
	return IntValue(smt.Ite(v.Term, smt.IntVal(1), smt.IntVal(0)))
}

func boolToStringTerm(v *Value) smt.Term {
	return smt.Ite(v.Term, smt.StringVal("true"), smt.StringVal("false"))
}
