// Package diagnostics provides the verbose-logging and error-reporting
// surface shared by the compiler, solver, and CLI front ends.
package diagnostics

import (
	"os"
	"strconv"
)

type flags struct {
	Symbol   bool
	Dispatch bool
	Coerce   bool
	Regex    bool
	Solve    bool
}

var d *flags

func init() {
	d = &flags{
		Symbol:   boolEnv("PMFORCE_DEBUG_SYMBOL"),
		Dispatch: boolEnv("PMFORCE_DEBUG_DISPATCH"),
		Coerce:   boolEnv("PMFORCE_DEBUG_COERCE"),
		Regex:    boolEnv("PMFORCE_DEBUG_REGEX"),
		Solve:    boolEnv("PMFORCE_DEBUG_SOLVE"),
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Symbol() bool   { return d.Symbol }
func Dispatch() bool { return d.Dispatch }
func Coerce() bool    { return d.Coerce }
func Regex() bool    { return d.Regex }
func Solve() bool    { return d.Solve }
