package main

import "testing"

func TestCompilerConfigDefaultsWhenFlagsUnset(t *testing.T) {
	cfg := &MainConfig{}
	c, err := cfg.CompilerConfig()
	if err != nil {
		t.Fatalf("CompilerConfig: %v", err)
	}
	if c.SplitSegments != 4 {
		t.Errorf("got SplitSegments=%d, want the default of 4", c.SplitSegments)
	}
	if c.TaintRootPolicy == nil {
		t.Errorf("expected the default taint-root policy to be set")
	}
}

func TestCompilerConfigHonorsSplitSegmentsOverride(t *testing.T) {
	cfg := &MainConfig{SplitSegments: 6}
	c, err := cfg.CompilerConfig()
	if err != nil {
		t.Fatalf("CompilerConfig: %v", err)
	}
	if c.SplitSegments != 6 {
		t.Errorf("got SplitSegments=%d, want 6", c.SplitSegments)
	}
}

func TestCompilerConfigHonorsTaintRootExprOverride(t *testing.T) {
	cfg := &MainConfig{TaintRootExpr: `hasPrefix(path, "msg")`}
	c, err := cfg.CompilerConfig()
	if err != nil {
		t.Fatalf("CompilerConfig: %v", err)
	}
	if !c.TaintRootPolicy.Matches("msg.origin") {
		t.Errorf("expected the custom taint-root expression to be compiled in")
	}
}

func TestCompilerConfigRejectsMalformedTaintRootExpr(t *testing.T) {
	cfg := &MainConfig{TaintRootExpr: "((("}
	if _, err := cfg.CompilerConfig(); err == nil {
		t.Errorf("expected an error for a malformed taint-root expression")
	}
}
