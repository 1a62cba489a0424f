package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Invocation is one recorded Compile call.
type Invocation struct {
	TexPath   string
	OutputDir string
}

// Recording is a Compiler that records calls and emulates an engine by
// dropping a result file and byproducts next to the input. It is meant for
// tests and dry runs.
type Recording struct {
	mu    sync.Mutex
	calls []Invocation

	// FailOn makes Compile fail for any file whose base name equals it.
	FailOn string
	// Outputs lists extensions written per call, e.g. ".pdf", ".aux", ".log".
	Outputs []string
}

func (r *Recording) Compile(_ context.Context, texPath, outputDir string) error {
	r.mu.Lock()
	r.calls = append(r.calls, Invocation{TexPath: texPath, OutputDir: outputDir})
	r.mu.Unlock()

	if r.FailOn != "" && filepath.Base(texPath) == r.FailOn {
		return fmt.Errorf("%w: %s: exit status 1", ErrCompileFailed, filepath.Base(texPath))
	}

	stem := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	for _, ext := range r.Outputs {
		p := filepath.Join(outputDir, stem+ext)
		if err := os.WriteFile(p, []byte(ext), 0o600); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (r *Recording) Calls() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invocation(nil), r.calls...)
}
