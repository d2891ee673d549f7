package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmforce-sec/pmforce/internal/config"
	"github.com/pmforce-sec/pmforce/internal/diagnostics"
	"github.com/pmforce-sec/pmforce/internal/smt/z3proc"
	"github.com/pmforce-sec/pmforce/internal/solver"
	"github.com/scott-cotton/cli"
)

type SolveConfig struct {
	*MainConfig
	Solve *cli.Command
}

func runSolve(cfg *SolveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Solve.Parse(cc, args)
	if err != nil {
		cfg.Solve.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: solve takes no positional arguments", cli.ErrUsage)
	}

	in, err := io.ReadAll(cc.In)
	if err != nil {
		return fmt.Errorf("pmforce: reading stdin: %w", err)
	}
	result, err := solveOnce(context.Background(), cfg.MainConfig, in)
	if err != nil {
		diagnostics.ReportFatal(os.Stderr, err)
		return cli.ExitCodeErr(1)
	}
	if result.Outcome != solver.Sat {
		diagnostics.ReportNoSolution(os.Stderr)
		return nil
	}
	return writeResult(cc.Out, result)
}

// solveOnce decodes one path-condition document and runs it through
// internal/solver, applying the two supplemental types-override files
// (§6) before compiling.
func solveOnce(ctx context.Context, mainCfg *MainConfig, in []byte) (*solver.Result, error) {
	var req solver.Request
	if err := json.Unmarshal(in, &req); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}

	types, err := config.ApplyTypesOverrides(req.Types, mainCfg.TypesYAML, mainCfg.TypesPatch)
	if err != nil {
		return nil, err
	}
	req.Types = types

	compilerCfg, err := mainCfg.CompilerConfig()
	if err != nil {
		return nil, err
	}

	backend := z3proc.New(mainCfg.SMTBin, strings.Fields(mainCfg.SMTArgs)...)
	return solver.Solve(ctx, backend, compilerCfg, req)
}

func writeResult(w io.Writer, result *solver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// encodeResult renders a Result exactly as `solve` would print it, for
// the verify subcommand's diff.
func encodeResult(result *solver.Result) ([]byte, error) {
	if result.Outcome != solver.Sat {
		return []byte("no solution\n"), nil
	}
	buf := &bytes.Buffer{}
	if err := writeResult(buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
