// Package smt is the thin interface onto the external SMT solver
// (spec.md §1, §6): quantifier-free integers, booleans, unbounded
// strings with Length/SubString/IndexOf/PrefixOf/SuffixOf/Replace/
// Concat/InRe, and arrays from Int to String with Select.
//
// Term is a typed SMT-LIB2 expression builder: every function below
// renders straight to SMT-LIB2 text, so a Term is cheap to build and
// the solver backend never has to round-trip through a generic AST.
package smt

import (
	"fmt"
	"strconv"
	"strings"
)

type Sort int

const (
	SortString Sort = iota
	SortInt
	SortBool
	SortArray // Int -> String
	SortRegex
)

func (s Sort) smtlib() string {
	switch s {
	case SortString:
		return "String"
	case SortInt:
		return "Int"
	case SortBool:
		return "Bool"
	case SortArray:
		return "(Array Int String)"
	case SortRegex:
		return "(RegLan String)"
	default:
		panic("smt: unknown sort")
	}
}

// Term is an SMT-LIB2 expression of a known Sort. Name is non-empty iff
// the term is exactly a free symbol (as opposed to a compound
// expression), which is what Session.declare and the model-extraction
// code need to know which symbols to declare/query.
type Term struct {
	Sort Sort
	Name string // "" for compound expressions
	expr string
}

func (t Term) String() string { return t.expr }

// IsHelper reports whether t is a free symbol whose name marks it as a
// helper auxiliary excluded from the returned assignment (spec.md
// glossary: "Helper symbol").
func (t Term) IsHelper() bool {
	return t.Name != "" && strings.HasPrefix(t.Name, "__ignore_")
}

func sym(name string, sort Sort) Term {
	return Term{Sort: sort, Name: name, expr: quoteSym(name)}
}

// quoteSym renders an SMT-LIB2 identifier, using |pipe quoting| when it
// contains characters outside the simple-symbol charset ('.' is inside
// it; the ':', '(', ')', '[' and ']' in type-variable and indexed names
// are not and require this).
func quoteSym(name string) string {
	simple := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("~!@$%^&*_+=<>.?/-", r):
		default:
			simple = false
		}
	}
	if simple && name != "" {
		return name
	}
	return "|" + strings.ReplaceAll(name, "|", "") + "|"
}

func StringSym(name string) Term { return sym(name, SortString) }
func IntSym(name string) Term    { return sym(name, SortInt) }
func BoolSym(name string) Term   { return sym(name, SortBool) }
func ArraySym(name string) Term  { return sym(name, SortArray) }

func StringVal(s string) Term {
	return Term{Sort: SortString, expr: quoteStringLit(s)}
}

func quoteStringLit(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteString(`""`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func IntVal(n int) Term {
	if n < 0 {
		return Term{Sort: SortInt, expr: fmt.Sprintf("(- %d)", -n)}
	}
	return Term{Sort: SortInt, expr: strconv.Itoa(n)}
}

func BoolVal(b bool) Term {
	if b {
		return Term{Sort: SortBool, expr: "true"}
	}
	return Term{Sort: SortBool, expr: "false"}
}

func app(sort Sort, op string, args ...Term) Term {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.expr
	}
	return Term{Sort: sort, expr: "(" + op + " " + strings.Join(parts, " ") + ")"}
}

// String theory.
func Length(s Term) Term                    { return app(SortInt, "str.len", s) }
func Concat(ss ...Term) Term                { return app(SortString, "str.++", ss...) }
func IndexOf(s, sub, start Term) Term       { return app(SortInt, "str.indexof", s, sub, start) }
func SubString(s, start, length Term) Term  { return app(SortString, "str.substr", s, start, length) }
func PrefixOf(pre, s Term) Term             { return app(SortBool, "str.prefixof", pre, s) }
func SuffixOf(suf, s Term) Term             { return app(SortBool, "str.suffixof", suf, s) }
func Replace(s, search, repl Term) Term     { return app(SortString, "str.replace", s, search, repl) }
func InRe(s, re Term) Term                  { return app(SortBool, "str.in_re", s, re) }
func StrToRe(s Term) Term                   { return app(SortRegex, "str.to_re", s) }
func IntToStr(n Term) Term                  { return app(SortString, "str.from_int", n) }
func StrToInt(s Term) Term                  { return app(SortInt, "str.to_int", s) }
func Contains(s, sub Term) Term             { return app(SortBool, "str.contains", s, sub) }

// Regex theory.
func ReRange(lo, hi byte) Term {
	return Term{Sort: SortRegex, expr: fmt.Sprintf("(re.range %s %s)", quoteStringLit(string(lo)), quoteStringLit(string(hi)))}
}
func ReStar(r Term) Term     { return app(SortRegex, "re.*", r) }
func RePlus(r Term) Term     { return app(SortRegex, "re.+", r) }
func ReConcat(rs ...Term) Term {
	if len(rs) == 0 {
		return ReEmpty()
	}
	return app(SortRegex, "re.++", rs...)
}
func ReUnion(rs ...Term) Term { return app(SortRegex, "re.union", rs...) }
func ReEmpty() Term           { return Term{Sort: SortRegex, expr: "re.none"} }
func ReAll() Term             { return Term{Sort: SortRegex, expr: "re.all"} }

// Arrays.
func Select(arr, idx Term) Term     { return app(SortString, "select", arr, idx) }
func Store(arr, idx, val Term) Term { return app(SortArray, "store", arr, idx, val) }

// ArrayConst builds a constant Int->String array mapping every index
// to val, the base a literal array's Store chain is built on top of.
func ArrayConst(val Term) Term {
	return Term{Sort: SortArray, expr: fmt.Sprintf("((as const %s) %s)", SortArray.smtlib(), val.expr)}
}

// Arithmetic & shifts (shifts are modelled arithmetically as
// multiplication/division by a power of two — sufficient for the small
// shift amounts that occur in exploit path conditions; the other bitwise
// ops round through bit-vectors below).
func Add(a, b Term) Term { return app(SortInt, "+", a, b) }
func Sub(a, b Term) Term { return app(SortInt, "-", a, b) }
func Mul(a, b Term) Term { return app(SortInt, "*", a, b) }
func Div(a, b Term) Term { return app(SortInt, "div", a, b) }
func Mod(a, b Term) Term { return app(SortInt, "mod", a, b) }
func Neg(a Term) Term    { return app(SortInt, "-", a) }

func Shl(a, b Term) Term { return app(SortInt, "*", a, ipow2(b)) }
func Shr(a, b Term) Term { return app(SortInt, "div", a, ipow2(b)) }
func ipow2(b Term) Term  { return app(SortInt, "^", IntVal(2), b) }

// Bitwise ops have no native quantifier-free-integer encoding; we round
// through a fixed-width bit-vector via the solver's int2bv/bv2int
// extension, which every backend we target (z3) supports.
const bvWidth = 32

func toBV(a Term) Term {
	return Term{Sort: SortInt, expr: fmt.Sprintf("((_ int2bv %d) %s)", bvWidth, a.expr)}
}
func fromBV(a Term) Term {
	return Term{Sort: SortInt, expr: fmt.Sprintf("(bv2int %s)", a.expr)}
}
func bvOp(op string, a, b Term) Term {
	return fromBV(app(SortInt, op, toBV(a), toBV(b)))
}

func BAnd(a, b Term) Term { return bvOp("bvand", a, b) }
func BOr(a, b Term) Term  { return bvOp("bvor", a, b) }
func BXor(a, b Term) Term { return bvOp("bvxor", a, b) }

// Comparisons.
func Eq(a, b Term) Term { return app(SortBool, "=", a, b) }
func Ne(a, b Term) Term { return Not(Eq(a, b)) }
func Lt(a, b Term) Term { return app(SortBool, "<", a, b) }
func Gt(a, b Term) Term { return app(SortBool, ">", a, b) }
func Le(a, b Term) Term { return app(SortBool, "<=", a, b) }
func Ge(a, b Term) Term { return app(SortBool, ">=", a, b) }

// Boolean.
func Not(a Term) Term       { return app(SortBool, "not", a) }
func And(terms ...Term) Term {
	terms = nonEmpty(terms)
	if len(terms) == 0 {
		return BoolVal(true)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return app(SortBool, "and", terms...)
}
func Or(terms ...Term) Term {
	terms = nonEmpty(terms)
	if len(terms) == 0 {
		return BoolVal(false)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return app(SortBool, "or", terms...)
}
func Implies(a, b Term) Term { return app(SortBool, "=>", a, b) }

// Ite is a sorted if-then-else; the result's Sort is taken from
// whichThen since then/els are required to agree.
func Ite(cond, then, els Term) Term {
	return Term{Sort: then.Sort, expr: fmt.Sprintf("(ite %s %s %s)", cond.expr, then.expr, els.expr)}
}

func nonEmpty(terms []Term) []Term {
	out := terms[:0:0]
	for _, t := range terms {
		out = append(out, t)
	}
	return out
}
