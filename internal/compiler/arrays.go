package compiler

import (
	"github.com/pmforce-sec/pmforce/internal/errs"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// arrayIndexOfFunc implements array indexOf by existentially encoding
// it: a helper index symbol that, when >= 0, must select the searched
// value at that position and be less than the array's length, or else
// is -1. Nothing further is asserted: -1 is not ruled out when some
// position does hold the value, and a matched position need not be the
// first one. This is the "array indexOf"
// helper-int encoding from the reference semantics, generalised to a
// symbolic needle.
func arrayIndexOfFunc(c *Context, base *Value, args []*Value) (*Value, error) {
	needle, ok := arrayNeedle(args, 0)
	if !ok {
		return nil, errs.Unsupported{Op: "indexOf", Reason: "array indexOf needs a string, number, or boolean needle"}
	}
	return c.arrayIndexOf(base, needle)
}

// arrayNeedle coerces a member-function argument to the string term an
// array's elements are stored as: literal arrays materialize numbers
// and booleans as their string form (literalArray), so a search value
// of either kind still needs comparing against the same representation.
func arrayNeedle(args []*Value, i int) (*Value, bool) {
	if i >= len(args) {
		return nil, false
	}
	t, ok := argStringValue(args[i])
	if !ok {
		return nil, false
	}
	return StringValue(t), true
}

func (c *Context) arrayIndexOf(base *Value, needle *Value) (*Value, error) {
	idx := c.HelperSymbol("array_indexof", smt.SortInt)
	length := c.ArrayLength(identifierOf(base))
	found := smt.And(smt.Ge(idx, smt.IntVal(0)), smt.Lt(idx, length), smt.Eq(smt.Select(base.Term, idx), needle.Term))
	c.Session.Assert(smt.Or(found, smt.Eq(idx, smt.IntVal(-1))))
	return IntValue(idx), nil
}

func arrayIncludesFunc(c *Context, base *Value, args []*Value) (*Value, error) {
	needle, ok := arrayNeedle(args, 0)
	if !ok {
		return nil, errs.Unsupported{Op: "includes", Reason: "array includes needs a string, number, or boolean needle"}
	}
	return c.arrayIncludes(base, needle)
}

// arrayIncludes asserts (via a helper existential index) that needle
// occurs somewhere within [0, length) of base, for the `.includes()`
// member function.
func (c *Context) arrayIncludes(base *Value, needle *Value) (*Value, error) {
	idx := c.HelperSymbol("array_includes", smt.SortInt)
	length := c.ArrayLength(identifierOf(base))
	result := c.HelperSymbol("array_includes_result", smt.SortBool)
	inBounds := smt.And(smt.Ge(idx, smt.IntVal(0)), smt.Lt(idx, length))
	c.Session.Assert(smt.Eq(result, smt.And(inBounds, smt.Eq(smt.Select(base.Term, idx), needle.Term))))
	return BoolValue(result), nil
}

func identifierOf(v *Value) string {
	// Array length lookups are keyed by the array symbol's name. Every
	// array Value is backed by a named symbol: a declared identifier, or
	// the helper symbol split and literalArray create (whose length is
	// pinned via PinArrayLength under that same name).
	return v.Term.Name
}

func arrayJoin(c *Context, base *Value, args []*Value) (*Value, error) {
	sep := smt.StringVal(",")
	if len(args) > 0 && args[0].Kind == KindString {
		sep = args[0].Term
	}
	length := c.ArrayLength(identifierOf(base))
	n := c.Config.SplitSegments
	terms := make([]smt.Term, 0, n*2)
	for i := 0; i < n; i++ {
		if i > 0 {
			terms = append(terms, sep)
		}
		elem := smt.Select(base.Term, smt.IntVal(i))
		terms = append(terms, smt.Ite(smt.Lt(smt.IntVal(int64ToInt(i)), length), elem, smt.StringVal("")))
	}
	return StringValue(smt.Concat(terms...)), nil
}

func int64ToInt(i int) int { return i }

func arrayPop(c *Context, base *Value, args []*Value) (*Value, error) {
	length := c.ArrayLength(identifierOf(base))
	lastIdx := smt.Sub(length, smt.IntVal(1))
	return StringValue(smt.Select(base.Term, lastIdx)), nil
}

func arraySlice(c *Context, base *Value, args []*Value) (*Value, error) {
	// Slicing an array of unknown concrete length into another array
	// has no fixed-shape SMT encoding; exploit payloads only ever
	// inspect individual elements of a sliced array (via a subsequent
	// iterator op), so we hand back the same backing array unchanged
	// and let element access continue to work. Non-zero start offsets
	// aren't representable this way, per the array Non-goals.
	if len(args) > 0 {
		if start, ok := literalIntOf(args[0]); !ok || start != 0 {
			return nil, errs.Unsupported{Op: "slice", Reason: "non-zero array slice start is outside the supported theory"}
		}
	}
	return base, nil
}

func literalIntOf(v *Value) (int, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	n, err := smt.DecodeInt(smt.SExpr{Atom: v.Term.String()})
	if err != nil {
		return 0, false
	}
	return n, true
}
