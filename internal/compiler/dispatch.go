package compiler

import "github.com/pmforce-sec/pmforce/internal/errs"

// memberFunc is the closure-table entry shape for string/array member
// functions. Per spec.md §9's design note, these two tables remain
// dictionaries of closures keyed by name (unlike every other op
// dispatch in this package, which switches on a closed Go enum) — the
// set of JS member functions the recorder can observe is open-ended in
// a way operator kinds aren't, so a lookup table is the better fit
// here.
type memberFunc func(c *Context, base *Value, args []*Value) (*Value, error)

var stringFuncs = map[string]memberFunc{
	"indexOf":       stringIndexOf,
	"lastIndexOf":   stringIndexOf,
	"includes":      stringIncludes,
	"startsWith":    stringStartsWith,
	"endsWith":      stringEndsWith,
	"substring":     stringSubstring,
	"substr":        stringSubstr,
	"slice":         stringSlice,
	"split":         stringSplit,
	"match":         stringMatch,
	"search":        stringSearch,
	"replace":       stringReplace,
	"concat":        stringConcat,
	"toString":      stringToString,
	"toLowerCase":   stringIdentity,
	"toUpperCase":   stringIdentity,
	"trim":          stringIdentity,
	"charAt":        stringCharAt,
	"repeat":        stringRepeat,
}

var arrayFuncs = map[string]memberFunc{
	"indexOf":  arrayIndexOfFunc,
	"includes": arrayIncludesFunc,
	"join":     arrayJoin,
	"pop":      arrayPop,
	"slice":    arraySlice,
}

func (c *Context) callMemberFunction(base *Value, name string, args []*Value) (*Value, error) {
	switch base.Kind {
	case KindString:
		fn, ok := stringFuncs[name]
		if !ok {
			return nil, errs.Unsupported{Op: name, Reason: "unrecognized string member function"}
		}
		return fn(c, base, args)
	case KindArray:
		fn, ok := arrayFuncs[name]
		if !ok {
			return nil, errs.Unsupported{Op: name, Reason: "unrecognized array member function"}
		}
		return fn(c, base, args)
	default:
		return nil, errs.Unsupported{Op: name, Reason: "member function called on a value with no member functions"}
	}
}
