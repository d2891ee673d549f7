package regex

import (
	"fmt"
	"regexp/syntax"
)

// StdlibParser adapts the standard library's regexp/syntax parser into
// the Node contract, so internal/regex runs standalone without the
// taint pipeline's own JS regex grammar.
type StdlibParser struct{}

func (StdlibParser) Parse(pattern string) (*Node, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("regex: parsing %q: %w", pattern, err)
	}
	n, err := fromSyntax(re)
	if err != nil {
		return nil, err
	}
	n.Anchored = hasAnchors(re)
	return n, nil
}

func hasAnchors(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpBeginText, syntax.OpEndLine, syntax.OpEndText:
		return true
	case syntax.OpConcat:
		for _, s := range re.Sub {
			if hasAnchors(s) {
				return true
			}
		}
	}
	return false
}

func fromSyntax(re *syntax.Regexp) (*Node, error) {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpBeginText, syntax.OpEndLine, syntax.OpEndText:
		return &Node{Kind: Empty}, nil

	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return &Node{Kind: Empty}, nil
		}
		if len(re.Rune) == 1 {
			return &Node{Kind: Char, Rune: re.Rune[0]}, nil
		}
		children := make([]*Node, len(re.Rune))
		for i, r := range re.Rune {
			children[i] = &Node{Kind: Char, Rune: r}
		}
		return &Node{Kind: Concat, Children: children}, nil

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return &Node{Kind: Dot}, nil

	case syntax.OpCharClass:
		ranges := make([]Range, 0, len(re.Rune)/2)
		for i := 0; i+1 < len(re.Rune); i += 2 {
			ranges = append(ranges, Range{Lo: re.Rune[i], Hi: re.Rune[i+1]})
		}
		return &Node{Kind: Class, Ranges: ranges}, nil

	case syntax.OpConcat:
		children, err := fromSyntaxSub(re.Sub)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Concat, Children: children}, nil

	case syntax.OpAlternate:
		children, err := fromSyntaxSub(re.Sub)
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Bar, Children: children}, nil

	case syntax.OpStar:
		child, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Star, Children: []*Node{child}}, nil

	case syntax.OpPlus:
		child, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Plus, Children: []*Node{child}}, nil

	case syntax.OpQuest:
		child, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Bar, Children: []*Node{child, {Kind: Empty}}}, nil

	case syntax.OpCapture:
		child, err := fromSyntax(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Group, Children: []*Node{child}}, nil

	case syntax.OpRepeat:
		return fromRepeat(re)

	default:
		return nil, fmt.Errorf("regex: unsupported construct (op %v)", re.Op)
	}
}

// fromRepeat expands a bounded repetition {m,n} into a concat of m
// mandatory copies followed by (n-m) optional copies, or an unbounded
// tail handled with Star when n < 0.
func fromRepeat(re *syntax.Regexp) (*Node, error) {
	child, err := fromSyntax(re.Sub[0])
	if err != nil {
		return nil, err
	}
	var children []*Node
	for i := 0; i < re.Min; i++ {
		children = append(children, cloneNode(child))
	}
	if re.Max < 0 {
		children = append(children, &Node{Kind: Star, Children: []*Node{cloneNode(child)}})
	} else {
		for i := re.Min; i < re.Max; i++ {
			children = append(children, &Node{Kind: Bar, Children: []*Node{cloneNode(child), {Kind: Empty}}})
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Node{Kind: Concat, Children: children}, nil
}

func cloneNode(n *Node) *Node {
	cp := *n
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = cloneNode(c)
		}
	}
	if n.Ranges != nil {
		cp.Ranges = append([]Range(nil), n.Ranges...)
	}
	return &cp
}

func fromSyntaxSub(subs []*syntax.Regexp) ([]*Node, error) {
	children := make([]*Node, len(subs))
	for i, s := range subs {
		n, err := fromSyntax(s)
		if err != nil {
			return nil, err
		}
		children[i] = n
	}
	return children, nil
}
