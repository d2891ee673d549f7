// Package z3proc drives an external SMT-LIB2-over-stdio solver process
// (z3 -in by default) as the smt.Solver backend, the same
// shell-out-to-a-subprocess idiom the rest of the exploitation pipeline
// uses for external collaborators (exec, pipe).
package z3proc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/pmforce-sec/pmforce/internal/diagnostics"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

func init() {
	_ = smt.Register("z3proc", func(bin string, args ...string) smt.Solver {
		return New(bin, args...)
	})
}

// Backend runs Bin (default "z3") with Args (default "-in") once per
// script, feeding the rendered SMT-LIB2 program on stdin and reading
// the solver's answer from stdout. One process per script rather than
// a long-lived REPL keeps a Backend safe for concurrent Solve calls
// (cmd/pmforced) without any shared mutable process state.
type Backend struct {
	Bin  string
	Args []string
}

// New returns a Backend invoking bin with args, defaulting to
// "z3 -in" when bin is empty.
func New(bin string, args ...string) *Backend {
	if bin == "" {
		bin = "z3"
		args = []string{"-in"}
	}
	return &Backend{Bin: bin, Args: args}
}

func (b *Backend) Run(ctx context.Context, script string) (string, error) {
	if diagnostics.Solve() {
		diagnostics.Logf("z3proc: running %s %v on:\n%s\n", b.Bin, b.Args, script)
	}
	cmd := exec.CommandContext(ctx, b.Bin, b.Args...)
	cmd.Stdin = bytes.NewBufferString(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("z3proc: %s: %w (stderr: %s)", b.Bin, err, stderr.String())
	}
	out := stdout.String()
	if diagnostics.Solve() {
		diagnostics.Logf("z3proc: response:\n%s\n", out)
	}
	return out, nil
}
