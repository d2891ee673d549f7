package main

import (
	"github.com/pmforce-sec/pmforce/internal/compiler"
	"github.com/scott-cotton/cli"
)

// MainConfig holds the flags shared by every subcommand: which SMT
// binary to drive, the split-segment bound, the taint-root policy
// expression, and the two supplemental types-override file paths.
type MainConfig struct {
	SMTBin  string `cli:"name=smt-bin desc='SMT solver binary to invoke (default z3 -in)'"`
	SMTArgs string `cli:"name=smt-args desc='space separated args to the SMT binary (default -in)'"`

	SplitSegments int    `cli:"name=split-segments desc='number of segments String.prototype.split is unrolled into'"`
	TaintRootExpr string `cli:"name=taint-root-expr desc='expr-lang boolean expression over path deciding the taint root'"`

	TypesYAML  string `cli:"name=types-yaml desc='YAML file of supplemental type overrides merged into types'"`
	TypesPatch string `cli:"name=types-patch desc='RFC 7396 JSON merge patch file applied to types'"`

	Main *cli.Command
}

// CompilerConfig builds the internal/compiler.Config this invocation
// should use, falling back to compiler.DefaultConfig()'s values for
// any flag left at its zero value.
func (cfg *MainConfig) CompilerConfig() (compiler.Config, error) {
	c := compiler.DefaultConfig()
	if cfg.SplitSegments > 0 {
		c.SplitSegments = cfg.SplitSegments
	}
	if cfg.TaintRootExpr != "" {
		policy, err := compiler.NewTaintRootPolicy(cfg.TaintRootExpr)
		if err != nil {
			return compiler.Config{}, err
		}
		c.TaintRootPolicy = policy
	}
	return c, nil
}
