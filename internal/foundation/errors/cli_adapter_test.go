package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"input", InputError("missing source").Build(), 3},
		{"config", ConfigError("bad yaml").Build(), 7},
		{"compile", CompileError("pdflatex failed").Build(), 11},
		{"filesystem", FileSystemError("disk full").Build(), 11},
		{"internal", InternalError("boom").Build(), 10},
		{"unclassified", stderrors.New("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	internal := InternalError("unexpected state").Build()
	if got := quiet.FormatError(internal); !strings.Contains(got, "use -v") {
		t.Errorf("expected hidden internal error, got %q", got)
	}
	if got := verbose.FormatError(internal); !strings.Contains(got, "unexpected state") {
		t.Errorf("expected verbose internal error, got %q", got)
	}

	compile := CompileError("pdflatex failed").Build()
	if got := quiet.FormatError(compile); !strings.Contains(got, "pdflatex failed") {
		t.Errorf("expected compile message to be shown, got %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.stderr = &stderr

	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(CompileError("pdflatex failed").WithContext("file", "doc_1.tex").Build())

	if code != 11 {
		t.Errorf("expected exit code 11, got %d", code)
	}
	if !strings.Contains(stderr.String(), "pdflatex failed") {
		t.Errorf("expected message on stderr, got %q", stderr.String())
	}
	if !strings.Contains(logs.String(), "category=compile") || !strings.Contains(logs.String(), "file=doc_1.tex") {
		t.Errorf("expected structured log with category and context, got %q", logs.String())
	}
}
