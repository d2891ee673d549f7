package compiler

import (
	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// SymbolFor implements §4.1: return the (memoized) symbolic Value for
// identifier, consulting the declared types table first, then falling
// back to the taint-root policy for untyped paths, and finally marking
// the identifier unsolvable when neither applies.
func (c *Context) SymbolFor(identifier string) *Value {
	if v, ok := c.symbols[identifier]; ok {
		return v
	}

	typ, known := c.Types.Lookup(identifier)
	if !known {
		if c.Config.TaintRootPolicy.Matches(identifier) {
			typ = jstype.String
		} else {
			typ = jstype.Undefined
		}
	}

	v := c.newSymbol(identifier, typ)
	c.symbols[identifier] = v
	c.Types.Set(identifier, typ)
	return v
}

func (c *Context) newSymbol(identifier string, typ jstype.Type) *Value {
	switch typ {
	case jstype.String, jstype.JSON:
		t := smt.StringSym(identifier)
		c.Session.Declare(t)
		v := StringValue(t)
		v.IsJSON = typ == jstype.JSON
		return v
	case jstype.Number:
		t := smt.IntSym(identifier)
		c.Session.Declare(t)
		return IntValue(t)
	case jstype.Boolean:
		t := smt.BoolSym(identifier)
		c.Session.Declare(t)
		return BoolValue(t)
	case jstype.Array:
		t := smt.ArraySym(identifier)
		c.Session.Declare(t)
		c.ArrayLength(identifier)
		return ArrayValue(t)
	default:
		// Object/Undefined carry no useful symbolic representation in
		// our theory; the identifier is pinned to "" in the final
		// assignment rather than given a type we'd have to invent.
		c.MarkUnsolvable(identifier)
		return Undefined()
	}
}
