// Command pmforced is the batch HTTP front-end (spec.md §6): a
// process that stays up and serves POST /solve requests, so a
// pipeline submitting many path-condition sets doesn't pay process
// startup cost per constraint set.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pmforce-sec/pmforce/internal/compiler"
)

func main() {
	var (
		addr          = flag.String("addr", ":8085", "address to listen on")
		smtBin        = flag.String("smt-bin", "", "SMT solver binary to invoke (default z3 -in)")
		smtArgs       = flag.String("smt-args", "", "space separated args to the SMT binary (default -in)")
		splitSegments = flag.Int("split-segments", 0, "number of segments String.prototype.split is unrolled into")
		taintRootExpr = flag.String("taint-root-expr", "", "expr-lang boolean expression over path deciding the taint root")
		typesYAML     = flag.String("types-yaml", "", "YAML file of supplemental type overrides merged into every request's types")
		typesPatch    = flag.String("types-patch", "", "RFC 7396 JSON merge patch file applied to every request's types")
	)
	flag.Parse()

	cfg, err := compilerConfigFrom(*splitSegments, *taintRootExpr)
	if err != nil {
		log.Fatalf("pmforced: %v", err)
	}

	h := &handler{
		smtBin:     *smtBin,
		smtArgs:    strings.Fields(*smtArgs),
		cfg:        cfg,
		typesYAML:  *typesYAML,
		typesPatch: *typesPatch,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/solve", h.serveSolve)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("pmforced: listening on %s", *addr)
	log.Fatal(srv.ListenAndServe())
}

func compilerConfigFrom(splitSegments int, taintRootExpr string) (compiler.Config, error) {
	c := compiler.DefaultConfig()
	if splitSegments > 0 {
		c.SplitSegments = splitSegments
	}
	if taintRootExpr != "" {
		policy, err := compiler.NewTaintRootPolicy(taintRootExpr)
		if err != nil {
			return compiler.Config{}, err
		}
		c.TaintRootPolicy = policy
	}
	return c, nil
}
