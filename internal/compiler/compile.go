package compiler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pmforce-sec/pmforce/internal/constraint"
	"github.com/pmforce-sec/pmforce/internal/errs"
	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// Compile implements §4.2: the recursive dispatcher that walks a
// constraint.Node into a Value. Internal nodes (Binary/Unary/Logical)
// recurse into their children; leaves resolve an identifier or literal
// and then fold the node's Ops chain left to right, each op rebuilding
// the running Value from the one before it.
func (c *Context) Compile(n *constraint.Node) (*Value, error) {
	if n == nil {
		return Undefined(), nil
	}
	if n.IsLeaf() {
		return c.compileLeaf(n)
	}
	switch n.Type {
	case constraint.NodeBinary:
		return c.compileBinary(n)
	case constraint.NodeUnary:
		return c.compileUnary(n)
	case constraint.NodeLogical:
		l, err := c.Compile(n.LVal)
		if err != nil {
			return nil, err
		}
		r, err := c.Compile(n.RVal)
		if err != nil {
			return nil, err
		}
		return CompileLogical(n.Op, l, r), nil
	default:
		return nil, errs.Unsupported{Op: string(n.Type), Reason: "unrecognized node type"}
	}
}

func (c *Context) compileLeaf(n *constraint.Node) (*Value, error) {
	var base *Value
	if n.Identifier != "" {
		base = c.SymbolFor(n.Identifier)
	} else {
		lit, err := n.Literal()
		if err != nil {
			return nil, err
		}
		base = c.literalValue(lit)
	}
	for _, op := range n.Ops {
		var err error
		base, err = c.applyOp(base, op)
		if err != nil {
			return nil, err
		}
	}
	return base, nil
}

func (c *Context) literalValue(lit any) *Value {
	switch v := lit.(type) {
	case nil:
		return Undefined()
	case string:
		return StringValue(smt.StringVal(v))
	case bool:
		return BoolValue(smt.BoolVal(v))
	case float64:
		return IntValue(smt.IntVal(int(v)))
	case []any:
		// A literal array (spec.md's "array includes on a literal
		// array" scenario).
		return c.literalArray(v)
	default:
		return Undefined()
	}
}

// literalArray mirrors getTypedZ3ValFromIdentifier/getZ3ValFromJSVal's
// handling of a literal list: a named helper array asserted equal to
// each literal element in turn (numbers and booleans materialized as
// their JS string form, since the array theory is Int->String), with
// its length pinned to the literal's own element count so a later
// existential bound (array_includes, indexOf) is sound.
func (c *Context) literalArray(elems []any) *Value {
	arr := c.HelperSymbol("literal_array", smt.SortArray)
	for i, e := range elems {
		var s smt.Term
		switch v := e.(type) {
		case string:
			s = smt.StringVal(v)
		case float64:
			s = smt.StringVal(formatJSONNumber(v))
		case bool:
			s = smt.StringVal(strconv.FormatBool(v))
		default:
			s = smt.StringVal("")
		}
		c.Session.Assert(smt.Eq(smt.Select(arr, smt.IntVal(i)), s))
	}
	c.PinArrayLength(arr.Name, len(elems))
	return ArrayValue(arr)
}

// formatJSONNumber renders a JSON number (always decoded as float64)
// the way JS's own number-to-string coercion would for the integers
// exploit payloads actually carry: no trailing ".0".
func formatJSONNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (c *Context) compileBinary(n *constraint.Node) (*Value, error) {
	l, err := c.Compile(n.LVal)
	if err != nil {
		return nil, err
	}
	r, err := c.Compile(n.RVal)
	if err != nil {
		return nil, err
	}
	return c.ApplyBinaryOp(n.Op, l, r)
}

func (c *Context) compileUnary(n *constraint.Node) (*Value, error) {
	v, err := c.Compile(n.Val)
	if err != nil {
		return nil, err
	}
	return c.ApplyUnaryOp(n.Op, v)
}

// applyOp folds one step of a leaf's Ops chain onto base.
func (c *Context) applyOp(base *Value, op *constraint.Op) (*Value, error) {
	switch op.Type {
	case constraint.OpBinary:
		rhs, err := c.Compile(op.Val)
		if err != nil {
			return nil, err
		}
		if op.Side == constraint.SideRight {
			return c.ApplyBinaryOp(op.Op, rhs, base)
		}
		return c.ApplyBinaryOp(op.Op, base, rhs)

	case constraint.OpUnary:
		return c.ApplyUnaryOp(op.Op, base)

	case constraint.OpLogical:
		rhs, err := c.Compile(op.Val)
		if err != nil {
			return nil, err
		}
		return CompileLogical(op.Op, base, rhs), nil

	case constraint.OpMemberFunction:
		args := make([]*Value, len(op.Args))
		for i, a := range op.Args {
			v, err := c.Compile(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return c.callMemberFunction(base, op.FunctionName, args)

	case constraint.OpIterator:
		return c.ArrayElement(base, op.AccessedElem)

	case constraint.OpExternalFunction:
		return c.callExternalFunction(op.FunctionName, base)

	case constraint.OpOnParentElement:
		parent, err := c.Compile(op.AsParent())
		if err != nil {
			return nil, err
		}
		return c.ArrayElement(parent, op.AccessedElem)

	default:
		return nil, errs.Unsupported{Op: string(op.Type), Reason: "unrecognized op"}
	}
}

// ArrayElement reads parent[idx] (§4.2's ops_on_parent_element /
// iterator accessors).
func (c *Context) ArrayElement(parent *Value, idx int) (*Value, error) {
	if parent.Kind != KindArray {
		return nil, errs.Unsupported{Op: "index", Reason: fmt.Sprintf("indexing a non-array value at %d", idx)}
	}
	return StringValue(smt.Select(parent.Term, smt.IntVal(idx))), nil
}

// callExternalFunction covers the handful of global constructors/casts
// the taint pipeline records as a standalone call wrapping an
// expression: String(x), Number(x), Boolean(x), JSON.parse(x).
func (c *Context) callExternalFunction(name string, arg *Value) (*Value, error) {
	switch name {
	case "String":
		return c.toStringValue(arg)
	case "Number":
		return c.toNumberValue(arg)
	case "Boolean":
		return BoolValue(Truthy(arg)), nil
	case "JSON.parse":
		// JSON.parse's result type is unknowable without actually
		// parsing; per spec.md's typeof/JSON widening scenario we
		// keep treating the underlying string symbolically but widen
		// its declared type to JSON, both on the returned Value and
		// (when the argument is still a bare identifier) on the types
		// table, so later typeof-equality checks against "object"
		// still succeed and the solved types map reports JSON.
		if arg.Kind != KindString {
			return nil, errs.Unsupported{Op: name, Reason: "JSON.parse requires a string operand"}
		}
		if arg.Term.Name != "" {
			c.Types.Set(arg.Term.Name, jstype.JSON)
		}
		widened := *arg
		widened.IsJSON = true
		return &widened, nil
	default:
		return nil, errs.Unsupported{Op: name, Reason: "unrecognized external function"}
	}
}

func (c *Context) toStringValue(v *Value) (*Value, error) {
	switch v.Kind {
	case KindString:
		return v, nil
	case KindInt:
		return StringValue(smt.IntToStr(v.Term)), nil
	case KindBool:
		return StringValue(boolToStringTerm(v)), nil
	case KindUndefined:
		return StringValue(smt.StringVal("undefined")), nil
	default:
		return nil, errs.Unsupported{Op: "String", Reason: "no string conversion for this value"}
	}
}

func (c *Context) toNumberValue(v *Value) (*Value, error) {
	switch v.Kind {
	case KindInt:
		return v, nil
	case KindString:
		return IntValue(smt.StrToInt(v.Term)), nil
	case KindBool:
		return boolToInt(v), nil
	default:
		return nil, errs.Unsupported{Op: "Number", Reason: "no numeric conversion for this value"}
	}
}
