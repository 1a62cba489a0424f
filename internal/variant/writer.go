package variant

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrOverwritesSource is returned when a variant would replace the source file.
var ErrOverwritesSource = errors.New("variant would overwrite the source file")

// Writer stores variants next to each other in an output directory.
type Writer struct {
	source string
	dir    string
}

// NewWriter returns a Writer naming files after source and placing them in dir.
func NewWriter(source, dir string) *Writer {
	return &Writer{source: source, dir: dir}
}

// Path returns where v will be written.
func (w *Writer) Path(v Variant) string {
	return filepath.Join(w.dir, FileName(w.source, v.Suffix))
}

// Write replaces the file for v with its content and returns the path.
// The file is swapped in atomically, so readers never see a partial write.
func (w *Writer) Write(v Variant) (string, error) {
	path := w.Path(v)
	if w.isSource(path) {
		return "", fmt.Errorf("%w: %s", ErrOverwritesSource, path)
	}
	if err := atomic.WriteFile(path, strings.NewReader(v.Content)); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) isSource(path string) bool {
	src, err := filepath.Abs(w.source)
	if err != nil {
		return false
	}
	dst, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if src == dst {
		return true
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(srcInfo, dstInfo)
}
