// Package solver is the top-level driver (§4.8): it flattens the input
// types table, compiles every path condition under truthy coercion,
// asserts the accumulated side constraints, invokes the SMT backend,
// and on a sat result extracts and coerces the model back into the
// wire-format assignment the exploitation pipeline consumes.
package solver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pmforce-sec/pmforce/internal/compiler"
	"github.com/pmforce-sec/pmforce/internal/constraint"
	"github.com/pmforce-sec/pmforce/internal/jstype"
	"github.com/pmforce-sec/pmforce/internal/smt"
)

// arrayMaterializeIndices is how many elements of a solved array are
// read back into the assignment (the reference implementation
// materializes 3 fixed indices per array, since exploit path
// conditions never index further than that).
const arrayMaterializeIndices = 3

// Request is the decoded input JSON: the path conditions to satisfy
// together, plus the types table the taint recorder captured for the
// identifiers they mention.
type Request struct {
	Constraints []*constraint.Node `json:"constraints"`
	Types       json.RawMessage    `json:"types"`
}

// Outcome is the three-way result spec.md §7 requires callers branch
// on: Sat carries an assignment, Unsat/Unknown both mean "no solution"
// and are reported identically to the caller.
type Outcome int

const (
	Unsat Outcome = iota
	Sat
	Unknown
)

// Result is the wire-format response: "assignements" (kept misspelled
// to match the upstream recorder's own field name) maps each concrete
// identifier to its solved JSON value, "types" echoes back the final
// inferred type of each.
type Result struct {
	Outcome      Outcome           `json:"-"`
	Assignements map[string]any    `json:"assignements"`
	Types        map[string]string `json:"types"`
}

// Solve runs one full constraint-solving pass per §4.8.
func Solve(ctx context.Context, backend smt.Solver, cfg compiler.Config, req Request) (*Result, error) {
	types := jstype.NewTable()
	if err := constraint.FlattenTypes(req.Types, types); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	session := smt.NewSession(backend)
	c := compiler.NewContext(cfg, session, types)

	for i, node := range req.Constraints {
		v, err := c.Compile(node)
		if err != nil {
			return nil, fmt.Errorf("solver: compiling constraint %d: %w", i, err)
		}
		session.Assert(compiler.Truthy(v))
	}

	status, err := session.CheckSat(ctx)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	switch status {
	case smt.StatusUnsat:
		return &Result{Outcome: Unsat}, nil
	case smt.StatusUnknown:
		return &Result{Outcome: Unknown}, nil
	}

	assignment, err := extractAssignment(ctx, session, c, types)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	return &Result{
		Outcome:      Sat,
		Assignements: assignment,
		Types:        typesSnapshot(types),
	}, nil
}

func typesSnapshot(table *jstype.Table) map[string]string {
	out := map[string]string{}
	table.Range(func(path string, typ jstype.Type) {
		out[path] = typ.String()
	})
	return out
}

func extractAssignment(ctx context.Context, session *smt.Session, c *compiler.Context, types *jstype.Table) (map[string]any, error) {
	names, kinds := declaredConcreteSymbols(c, types)
	if len(names) == 0 {
		return pinUnsolvable(c, map[string]any{}), nil
	}
	values, err := session.Values(ctx, names)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	for _, name := range names {
		raw, ok := values[rendered(name)]
		if !ok {
			continue
		}
		v, err := decodeModelValue(session, kinds[name], name, raw)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return pinUnsolvable(c, out), nil
}

// rendered mirrors the quoting smt.Term applies to symbol names, so we
// can look the Session.Values result back up by the same key it was
// requested under. Session.Values keys its map by the symbol's
// rendered form (see smt.parseGetValue), which for a simple identifier
// is just the identifier itself.
func rendered(name string) string { return smt.StringSym(name).String() }

func declaredConcreteSymbols(c *compiler.Context, types *jstype.Table) ([]string, map[string]jstype.Type) {
	kinds := map[string]jstype.Type{}
	var names []string
	types.Range(func(path string, typ jstype.Type) {
		if !typ.Concrete() {
			return
		}
		kinds[path] = typ
		names = append(names, path)
	})
	sort.Strings(names)
	return names, kinds
}

func decodeModelValue(session *smt.Session, typ jstype.Type, name string, raw smt.SExpr) (any, error) {
	switch typ {
	case jstype.String, jstype.JSON:
		return smt.DecodeString(raw)
	case jstype.Number:
		return smt.DecodeInt(raw)
	case jstype.Boolean:
		return smt.DecodeBool(raw)
	case jstype.Array:
		elems := make([]string, arrayMaterializeIndices)
		for i := range elems {
			s, ok, err := smt.DecodeArrayAt(raw, i)
			if err != nil {
				return nil, err
			}
			if ok {
				elems[i] = s
			}
		}
		return elems, nil
	default:
		return nil, fmt.Errorf("decoding %s: no decoder for type %s", name, typ)
	}
}

// pinUnsolvable fills in "" for every identifier the compiler couldn't
// give a concrete symbol to, per §4.8 step 5.
func pinUnsolvable(c *compiler.Context, out map[string]any) map[string]any {
	for id := range c.Unsolvable() {
		if _, ok := out[id]; !ok {
			out[id] = ""
		}
	}
	return out
}
