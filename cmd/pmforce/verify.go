package main

import (
	"context"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type VerifyConfig struct {
	*MainConfig
	Verify *cli.Command
}

// runVerify solves the same input twice and diffs the two results,
// exercising the Idempotence testable property (spec.md §8)
// operationally rather than just by inspection.
func runVerify(cfg *VerifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Verify.Parse(cc, args)
	if err != nil {
		cfg.Verify.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: verify takes no positional arguments", cli.ErrUsage)
	}

	in, err := io.ReadAll(cc.In)
	if err != nil {
		return fmt.Errorf("pmforce: reading stdin: %w", err)
	}

	ctx := context.Background()
	first, err := solveOnce(ctx, cfg.MainConfig, in)
	if err != nil {
		return err
	}
	second, err := solveOnce(ctx, cfg.MainConfig, in)
	if err != nil {
		return err
	}

	firstOut, err := encodeResult(first)
	if err != nil {
		return err
	}
	secondOut, err := encodeResult(second)
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(firstOut), string(secondOut), false)
	if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
		fmt.Fprintln(cc.Out, "idempotent")
		return nil
	}

	fmt.Fprintln(cc.Out, dmp.DiffPrettyText(diffs))
	return cli.ExitCodeErr(1)
}
