package main

import (
	"github.com/scott-cotton/cli"
)

// MainCommand wires up pmforce's command tree: `solve` (the one-shot
// CLI spec.md §6 describes) and `verify` (the idempotence self-check
// built on top of it).
func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "pmforce").
		WithSynopsis("pmforce [opts] command [opts]").
		WithDescription("pmforce compiles taint-recorded path conditions into SMT queries and extracts concrete exploit payloads from their models.").
		WithOpts(opts...).
		WithSubs(
			SolveCommand(cfg),
			VerifyCommand(cfg))
}

func SolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SolveConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("solve").
		WithAliases("s").
		WithSynopsis("solve < path-conditions.json").
		WithDescription("read a path-condition document from stdin, solve it, and print the satisfying assignment to stdout (or \"no solution\" to stderr).").
		WithRun(func(cc *cli.Context, args []string) error {
			return runSolve(cfg, cc, args)
		})
	cfg.Solve = cmd
	return cmd
}

func VerifyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &VerifyConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("verify").
		WithSynopsis("verify < path-conditions.json").
		WithDescription("solve the same input twice and diff the two results, to check the backend behaves idempotently.").
		WithRun(func(cc *cli.Context, args []string) error {
			return runVerify(cfg, cc, args)
		})
	cfg.Verify = cmd
	return cmd
}
