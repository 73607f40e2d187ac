package tick

import (
	"fmt"
	"os"
	"path/filepath"
)

// CompileOptions carries the project configuration through a single
// compilation (spec §6.1's CLI surface and §3.6's analysis context are
// both sized by these settings).
type CompileOptions struct {
	Config *Config
}

// CompileResult is the two emitted C translation units plus the
// diagnostics collected along the way (spec §6.1: "Emits
// <output_basename>.h ... and .c").
type CompileResult struct {
	Header string
	Source string
	Diags  *Diagnostics
}

// CompileBytes runs the full pipeline — parse, analyze, lower, emit — over
// an in-memory source buffer, mirroring the teacher's own
// bytes-in/tree-out entry point shape.
func CompileBytes(src []byte, filename string, opts CompileOptions) (*CompileResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = NewConfig()
	}
	diags := NewDiagnostics(cfg.GetInt("analyzer.max_errors"))

	p := NewParser(src, filename, diags)
	module := p.ParseModule()
	if diags.HasErrors() {
		return &CompileResult{Diags: diags}, fmt.Errorf("tick: %s: parsing failed:\n%w", filename, diags)
	}

	alloc := NewArenaAllocator()
	ctx := NewAnalysisContext(alloc, src, diags)
	Analyze(ctx, module)
	if diags.HasErrors() {
		return &CompileResult{Diags: diags}, fmt.Errorf("tick: %s: analysis failed:\n%w", filename, diags)
	}

	Lower(module)

	emitCtx := NewEmitContext(filepath.Base(filename))
	Emit(emitCtx, module)

	return &CompileResult{Header: emitCtx.Iface.String(), Source: emitCtx.Impl.String(), Diags: diags}, nil
}

// CompileFile reads path and compiles it, naming the source by its base
// name in `#line` directives. Output file names are left to WriteOutputs.
func CompileFile(path string, opts CompileOptions) (*CompileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tick: reading %s: %w", path, err)
	}
	return CompileBytes(src, filepath.Base(path), opts)
}

// WriteOutputs writes the two emitted translation units to
// <outputBasename>.h and <outputBasename>.c. The implementation file
// includes its own header by name; Emit itself can't know that name since
// it only sees the source filename, not the caller's chosen output
// basename.
func WriteOutputs(result *CompileResult, outputBasename string) error {
	headerName := filepath.Base(outputBasename) + ".h"
	if err := os.WriteFile(outputBasename+".h", []byte(result.Header), 0o644); err != nil {
		return err
	}
	source := fmt.Sprintf("#include %q\n", headerName) + result.Source
	return os.WriteFile(outputBasename+".c", []byte(source), 0o644)
}
