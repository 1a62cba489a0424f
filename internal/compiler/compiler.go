// Package compiler runs the external typesetting engine on generated variants.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/multitex/internal/logfields"
)

var (
	// ErrCompilerNotFound is returned when the engine binary is not on PATH.
	ErrCompilerNotFound = errors.New("compiler binary not found")
	// ErrCompileFailed is returned when the engine exits unsuccessfully.
	ErrCompileFailed = errors.New("compiler execution failed")
)

// waitDelay bounds how long output pipes are drained after the engine is killed.
const waitDelay = 2 * time.Second

// DefaultEngine is the LaTeX engine used when none is configured.
const DefaultEngine = "pdflatex"

// DefaultArgs keep the engine from waiting on stdin when a document has errors.
var DefaultArgs = []string{"-interaction=nonstopmode", "-halt-on-error"}

// Compiler abstracts how a written variant is turned into its final form.
// Compile blocks until the engine finishes.
type Compiler interface {
	Compile(ctx context.Context, texPath, outputDir string) error
}

// BinaryCompiler invokes an engine binary such as pdflatex.
type BinaryCompiler struct {
	Engine string
	Args   []string
	// Timeout bounds each invocation; zero disables it.
	Timeout time.Duration
	// Passes is how many times the engine runs per file; values below 1 mean 1.
	Passes int

	lookPath func(string) (string, error)
}

// NewBinaryCompiler returns a compiler for engine with the default arguments.
func NewBinaryCompiler(engine string) *BinaryCompiler {
	if engine == "" {
		engine = DefaultEngine
	}
	return &BinaryCompiler{
		Engine: engine,
		Args:   append([]string(nil), DefaultArgs...),
		Passes: 1,
	}
}

// Command builds the argument list for one invocation.
func (b *BinaryCompiler) Command(texPath, outputDir string) []string {
	args := make([]string, 0, len(b.Args)+3)
	args = append(args, b.Args...)
	args = append(args, "-output-directory", outputDir, texPath)
	return args
}

func (b *BinaryCompiler) Compile(ctx context.Context, texPath, outputDir string) error {
	lookPath := b.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(b.Engine)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCompilerNotFound, b.Engine, err)
	}

	passes := max(b.Passes, 1)
	for pass := 1; pass <= passes; pass++ {
		if err := b.run(ctx, bin, texPath, outputDir, pass); err != nil {
			return err
		}
	}
	return nil
}

func (b *BinaryCompiler) run(ctx context.Context, bin, texPath, outputDir string, pass int) error {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, b.Command(texPath, outputDir)...)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Invoking compiler",
		logfields.Engine(b.Engine),
		logfields.File(filepath.Base(texPath)),
		slog.Int("pass", pass))
	start := time.Now()
	err := cmd.Run()

	outStr := stdout.String()
	errStr := stderr.String()
	if outStr != "" {
		slog.Debug("compiler stdout", "output", outStr)
	}
	if errStr != "" {
		slog.Warn("compiler stderr", "error_output", errStr)
	}
	slog.Debug("Compiler finished",
		logfields.File(filepath.Base(texPath)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrCompileFailed, filepath.Base(texPath), ctxErr)
		}
		// LaTeX engines report errors on stdout; keep the tail for context.
		output := tail(errStr, 2000)
		if output == "" {
			output = tail(outStr, 2000)
		}
		if output != "" {
			return fmt.Errorf("%w: %s: %w: %s", ErrCompileFailed, filepath.Base(texPath), err, output)
		}
		return fmt.Errorf("%w: %s: %w", ErrCompileFailed, filepath.Base(texPath), err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// NoopCompiler performs no compilation; used when compiling is disabled.
type NoopCompiler struct{}

func (NoopCompiler) Compile(_ context.Context, texPath, _ string) error {
	slog.Debug("NoopCompiler skipping compile", logfields.File(filepath.Base(texPath)))
	return nil
}
