package regex

import "github.com/pmforce-sec/pmforce/internal/smt"

// Translate converts a parsed Node tree into an SMT-LIB2 regular-
// language term suitable for str.in_re. Unanchored patterns (the common
// case: JS RegExp.test/match without ^...$) are wrapped in re.all on
// both sides, since str.in_re otherwise demands a full match.
func Translate(n *Node) smt.Term {
	body := translate(n)
	if n.Anchored {
		return body
	}
	all := smt.ReStar(smt.ReAll())
	return smt.ReConcat(all, body, all)
}

func translate(n *Node) smt.Term {
	switch n.Kind {
	case Empty:
		return smt.StrToRe(smt.StringVal(""))

	case Char:
		return smt.StrToRe(smt.StringVal(string(n.Rune)))

	case Dot:
		return smt.ReRange(0, 255)

	case Class:
		if len(n.Ranges) == 0 {
			return smt.ReEmpty()
		}
		terms := make([]smt.Term, len(n.Ranges))
		for i, r := range n.Ranges {
			terms[i] = classRange(r)
		}
		return smt.ReUnion(terms...)

	case Concat:
		if len(n.Children) == 0 {
			return smt.StrToRe(smt.StringVal(""))
		}
		terms := make([]smt.Term, len(n.Children))
		for i, c := range n.Children {
			terms[i] = translate(c)
		}
		return smt.ReConcat(terms...)

	case Bar:
		terms := make([]smt.Term, len(n.Children))
		for i, c := range n.Children {
			terms[i] = translate(c)
		}
		return smt.ReUnion(terms...)

	case Star:
		return smt.ReStar(translate(n.Children[0]))

	case Plus:
		return smt.RePlus(translate(n.Children[0]))

	case Group:
		return translate(n.Children[0])

	default:
		return smt.ReEmpty()
	}
}

// classRange clamps a rune range onto the byte range our string theory
// actually represents (0-255); runes beyond that are dropped, matching
// the reference translator's ASCII-oriented \w/\d expansion.
func classRange(r Range) smt.Term {
	lo, hi := r.Lo, r.Hi
	if lo > 255 {
		return smt.ReEmpty()
	}
	if hi > 255 {
		hi = 255
	}
	if lo == hi {
		return smt.StrToRe(smt.StringVal(string(rune(lo))))
	}
	return smt.ReRange(byte(lo), byte(hi))
}
