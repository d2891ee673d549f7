package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// fakeSolver answers CheckSat with a fixed status, recording the
// rendered script so tests can assert on the asserted constraints
// without invoking a real SMT binary.
type fakeSolver struct {
	status  smt.Status
	lastRun string
}

func (f *fakeSolver) Run(_ context.Context, script string) (string, error) {
	f.lastRun = script
	return f.status.String(), nil
}

// testEnv bundles a Context with the fakeSolver backing its Session,
// so a test can both compile through c and inspect what got asserted.
type testEnv struct {
	c       *Context
	backend *fakeSolver
}

func newTestContext(t *testing.T) *testEnv {
	t.Helper()
	backend := &fakeSolver{status: smt.StatusSat}
	session := smt.NewSession(backend)
	return &testEnv{c: NewContext(DefaultConfig(), session, jstype.NewTable()), backend: backend}
}

// assertAsserted forces a CheckSat (flushing the rendered script) and
// fails the test unless substr appears in it.
func (e *testEnv) assertAsserted(t *testing.T, substr string) {
	t.Helper()
	if _, err := e.c.Session.CheckSat(context.Background()); err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if !strings.Contains(e.backend.lastRun, substr) {
		t.Errorf("expected the rendered script to contain %q, got:\n%s", substr, e.backend.lastRun)
	}
}
