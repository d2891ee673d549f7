package compiler

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TaintRootPolicy decides whether an untyped identifier should be
// assumed to descend from the taint recorder's root (and so given a
// concrete string symbol rather than being marked unsolvable). It
// wraps a compiled expr-lang/expr boolean expression over the
// identifier's dotted path, so a deployment that taints a different
// global (a custom bridge object instead of "event") can retarget the
// policy with --taint-root-expr instead of a rebuild.
type TaintRootPolicy struct {
	source  string
	program *vm.Program
}

// NewTaintRootPolicy compiles source (e.g. `hasPrefix(path, "event")`)
// against an environment exposing the single string variable `path`.
func NewTaintRootPolicy(source string) (*TaintRootPolicy, error) {
	program, err := expr.Compile(source, expr.Env(taintRootEnv()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiler: compiling taint-root expression %q: %w", source, err)
	}
	return &TaintRootPolicy{source: source, program: program}, nil
}

// MustTaintRootPolicy is NewTaintRootPolicy for compile-time-constant
// default expressions; it panics on a malformed expression.
func MustTaintRootPolicy(source string) *TaintRootPolicy {
	p, err := NewTaintRootPolicy(source)
	if err != nil {
		panic(err)
	}
	return p
}

func taintRootEnv() map[string]any {
	return map[string]any{"path": ""}
}

// Matches reports whether identifier's dotted path should be treated
// as descending from the recognised taint root.
func (p *TaintRootPolicy) Matches(identifier string) bool {
	out, err := expr.Run(p.program, map[string]any{"path": identifier})
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

func (p *TaintRootPolicy) String() string { return p.source }
