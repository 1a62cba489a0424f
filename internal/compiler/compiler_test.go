package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine writes an executable shell script standing in for pdflatex.
func fakeEngine(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700))
	return path
}

func TestBinaryCompiler_Command(t *testing.T) {
	c := NewBinaryCompiler("")
	assert.Equal(t, DefaultEngine, c.Engine)
	assert.Equal(t, []string{
		"-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", "out", "out/doc_1.tex",
	}, c.Command("out/doc_1.tex", "out"))
}

func TestBinaryCompiler_NotFound(t *testing.T) {
	c := NewBinaryCompiler("definitely-not-a-latex-engine")
	err := c.Compile(context.Background(), "doc.tex", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompilerNotFound))
}

func TestBinaryCompiler_Success(t *testing.T) {
	dir := t.TempDir()
	// The last argument is the tex file; drop a pdf next to it.
	engine := fakeEngine(t, `for a; do last="$a"; done; touch "${last%.tex}.pdf"`)

	c := NewBinaryCompiler(engine)
	tex := filepath.Join(dir, "doc_1.tex")
	require.NoError(t, os.WriteFile(tex, []byte("x"), 0o600))

	require.NoError(t, c.Compile(context.Background(), tex, dir))
	assert.FileExists(t, filepath.Join(dir, "doc_1.pdf"))
}

func TestBinaryCompiler_Passes(t *testing.T) {
	dir := t.TempDir()
	counter := filepath.Join(dir, "count")
	engine := fakeEngine(t, `echo x >> "`+counter+`"`)

	c := NewBinaryCompiler(engine)
	c.Passes = 3
	require.NoError(t, c.Compile(context.Background(), filepath.Join(dir, "doc.tex"), dir))

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "x"))
}

func TestBinaryCompiler_FailureIncludesOutput(t *testing.T) {
	engine := fakeEngine(t, `echo "! Undefined control sequence."; exit 1`)

	c := NewBinaryCompiler(engine)
	err := c.Compile(context.Background(), "doc_1.tex", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompileFailed))
	assert.Contains(t, err.Error(), "Undefined control sequence")
	assert.Contains(t, err.Error(), "doc_1.tex")
}

func TestBinaryCompiler_Timeout(t *testing.T) {
	engine := fakeEngine(t, `exec sleep 5`)

	c := NewBinaryCompiler(engine)
	c.Timeout = 50 * time.Millisecond
	start := time.Now()
	err := c.Compile(context.Background(), "doc.tex", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompileFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestRecording(t *testing.T) {
	dir := t.TempDir()
	r := &Recording{FailOn: "doc_2.tex", Outputs: []string{".pdf", ".aux"}}

	require.NoError(t, r.Compile(context.Background(), filepath.Join(dir, "doc_1.tex"), dir))
	assert.FileExists(t, filepath.Join(dir, "doc_1.pdf"))
	assert.FileExists(t, filepath.Join(dir, "doc_1.aux"))

	err := r.Compile(context.Background(), filepath.Join(dir, "doc_2.tex"), dir)
	assert.True(t, errors.Is(err, ErrCompileFailed))
	assert.Len(t, r.Calls(), 2)
}

func TestNoopCompiler(t *testing.T) {
	assert.NoError(t, NoopCompiler{}.Compile(context.Background(), "doc.tex", "out"))
}
