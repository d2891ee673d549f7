package compiler

import (
	"github.com/pmforce-sec/pmforce/internal/errs"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// ApplyUnaryOp implements the Unary-node half of §4.2: !, -, typeof,
// and void.
func (c *Context) ApplyUnaryOp(op string, v *Value) (*Value, error) {
	switch op {
	case "!":
		return BoolValue(smt.Not(Truthy(v))), nil

	case "-":
		if v.Kind != KindInt {
			return nil, errs.Unsupported{Op: "-", Reason: "unary minus requires a numeric operand"}
		}
		return IntValue(smt.Neg(v.Term)), nil

	case "typeof":
		return c.typeofValue(v), nil

	case "void":
		return Undefined(), nil

	default:
		return nil, errs.Unsupported{Op: op, Reason: "unrecognized unary operator"}
	}
}

// typeofValue reports typeof's result as a fresh string symbol named
// type:<operand-name> rather than a concrete literal, so a later
// comparison against a literal (checkForTypeEqualToString's widening,
// see typeofWidenEquality) can leave the operand's actual runtime type
// up to the solver instead of fixing it at compile time. An operand
// with no identity of its own (a bare undefined) has nothing to name a
// type variable after, so its typeof is just the concrete "undefined".
func (c *Context) typeofValue(v *Value) *Value {
	if v.Kind == KindUndefined {
		return StringValue(smt.StringVal("undefined"))
	}
	return StringValue(c.typeSymbol(v))
}

// typeSymbol returns (declaring if needed) the type:<name> symbol for
// v, used by both typeof and instanceof's undefined check.
func (c *Context) typeSymbol(v *Value) smt.Term {
	name := v.Term.Name
	if name == "" {
		name = v.Term.String()
	}
	t := smt.StringSym("type:" + name)
	c.Session.Declare(t)
	return t
}
