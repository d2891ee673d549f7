// Package regex translates a parsed regular expression into an SMT-LIB2
// regular-language term (smt.SortRegex). The lexer/parser that produces
// the Node tree is an external collaborator: Node is the contract a
// parser is assumed to satisfy, and Parser is the one-method interface
// the rest of the pipeline implements against a real JS regex grammar.
// StdlibParser is a reference implementation good enough to run the
// backend standalone, built on the standard library's own regex parser.
package regex

// Kind tags the shape of a Node.
type Kind int

const (
	Empty Kind = iota
	Char        // a single literal rune, Node.Rune
	Dot         // "."  any character
	Concat      // sequence of Children
	Bar         // alternation of Children ("a|b|c")
	Star        // zero-or-more of Children[0] ("x*")
	Plus        // one-or-more of Children[0] ("x+")
	Group       // a capturing/non-capturing group wrapping Children[0]
	Class       // a character class, given as a set of [lo,hi] Ranges
)

// Range is an inclusive rune range within a Class node.
type Range struct {
	Lo, Hi rune
}

// Node is one node of a parsed regular expression's tree.
type Node struct {
	Kind     Kind
	Rune     rune
	Children []*Node
	Ranges   []Range
	Anchored bool // true on the root Node when the source had ^...$
}

// Parser converts a regex source pattern (as recorded by the taint
// pipeline, e.g. the second argument to a RegExp literal or a
// String.prototype.match call) into a Node tree.
type Parser interface {
	Parse(pattern string) (*Node, error)
}
