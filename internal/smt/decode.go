package smt

import (
	"fmt"
	"strconv"
	"strings"
)

// DecodeString unquotes a str.len/String-sorted model value.
func DecodeString(e SExpr) (string, error) {
	if !e.IsAtom() || len(e.Atom) < 2 || e.Atom[0] != '"' {
		return "", fmt.Errorf("smt: not a string literal: %v", e)
	}
	body := e.Atom[1 : len(e.Atom)-1]
	return strings.ReplaceAll(body, `""`, `"`), nil
}

// DecodeInt unwraps the (- n) negative-literal shape z3 uses for
// negative integers in models, in addition to plain numerals.
func DecodeInt(e SExpr) (int, error) {
	if e.IsAtom() {
		n, err := strconv.Atoi(e.Atom)
		if err != nil {
			return 0, fmt.Errorf("smt: not an integer literal: %v", e)
		}
		return n, nil
	}
	if len(e.List) == 2 && e.List[0].Atom == "-" {
		n, err := DecodeInt(e.List[1])
		if err != nil {
			return 0, err
		}
		return -n, nil
	}
	return 0, fmt.Errorf("smt: not an integer literal: %v", e)
}

// DecodeBool reads a true/false atom.
func DecodeBool(e SExpr) (bool, error) {
	switch e.Atom {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("smt: not a boolean literal: %v", e)
	}
}

// DecodeArrayAt extracts the String value stored at index from a model
// value for a (Array Int String): solvers render array models as a
// nest of (store base idx val) terms layered over a constant base
// array, so the value at a concrete index is the outermost store that
// mentions it. When no store mentions the index, ok is false (the
// constant base's value is not read).
func DecodeArrayAt(e SExpr, index int) (string, bool, error) {
	cur := e
	for {
		if cur.IsAtom() {
			return "", false, nil
		}
		if len(cur.List) == 4 && cur.List[0].Atom == "store" {
			idx, err := DecodeInt(cur.List[2])
			if err != nil {
				return "", false, err
			}
			if idx == index {
				s, err := DecodeString(cur.List[3])
				if err != nil {
					return "", false, err
				}
				return s, true, nil
			}
			cur = cur.List[1]
			continue
		}
		if len(cur.List) == 2 && cur.List[0].Atom == "as" {
			return "", false, nil
		}
		return "", false, nil
	}
}
