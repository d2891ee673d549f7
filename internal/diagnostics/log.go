package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logf writes a verbose diagnostic line to stderr. Call sites gate it
// behind one of the flag accessors in debug.go (Symbol, Dispatch, ...)
// so a quiet run pays no formatting cost.
func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// ReportFatal prints an unsupported-operation or other fatal diagnostic
// to w, colorized when w is a terminal, and is used by cmd/pmforce just
// before it aborts the current solve with a non-zero exit code.
func ReportFatal(w io.Writer, err error) {
	if f, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		color.New(color.FgRed, color.Bold).Fprintf(w, "pmforce: %v\n", err)
		return
	}
	fmt.Fprintf(w, "pmforce: %v\n", err)
}

// ReportNoSolution prints the literal "no solution" line spec.md §6
// requires on unsat/unknown, colorized yellow on a terminal.
func ReportNoSolution(w io.Writer) {
	if f, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		color.New(color.FgYellow).Fprintln(w, "no solution")
		return
	}
	fmt.Fprintln(w, "no solution")
}
