package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pmforce-sec/pmforce/internal/compiler"
	"github.com/pmforce-sec/pmforce/internal/config"
	"github.com/pmforce-sec/pmforce/internal/smt/z3proc"
	"github.com/pmforce-sec/pmforce/internal/solver"
)

// handler holds the configuration shared by every request. It carries
// no mutable state of its own: every /solve call builds a fresh
// compiler.Context and smt.Session inside solver.Solve, so concurrent
// requests never share a constraint-solving pass (spec.md §5).
type handler struct {
	smtBin     string
	smtArgs    []string
	cfg        compiler.Config
	typesYAML  string
	typesPatch string
}

// serveSolve parses one path-condition document per request (content-type
// check, read the whole body, decode), and replies with the same JSON
// shape `pmforce solve` prints to stdout.
func (h *handler) serveSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && ct != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("reading body: %v", err), http.StatusBadRequest)
		return
	}

	var req solver.Request
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, fmt.Sprintf("decoding request: %v", err), http.StatusBadRequest)
		return
	}

	types, err := config.ApplyTypesOverrides(req.Types, h.typesYAML, h.typesPatch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	req.Types = types

	backend := z3proc.New(h.smtBin, h.smtArgs...)
	result, err := solver.Solve(r.Context(), backend, h.cfg, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}
