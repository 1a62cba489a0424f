// Package cleanup removes auxiliary files left behind by the LaTeX engine.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/multitex/internal/logfields"
)

// DefaultExtensions are the byproducts removed when none are configured.
var DefaultExtensions = []string{"aux", "log", "out", "toc", "lof", "lot", "fls", "fdb_latexmk"}

// protected extensions are never removed, even when listed.
var protected = []string{".tex", ".pdf"}

// Result describes what a cleanup pass did.
type Result struct {
	Removed []string
	// Vanished lists files that disappeared between listing and removal.
	Vanished []string
}

// NormalizeExtensions lower-cases extensions and strips leading dots and
// duplicates. An empty list yields DefaultExtensions.
func NormalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return slices.Clone(DefaultExtensions)
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimLeft(strings.ToLower(strings.TrimSpace(e)), ".")
		if e == "" || slices.Contains(out, e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Matches reports whether name ends with one of exts and is not a protected
// primary file.
func Matches(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, p := range protected {
		if strings.HasSuffix(lower, p) {
			return false
		}
	}
	for _, e := range exts {
		if strings.HasSuffix(lower, "."+e) {
			return true
		}
	}
	return false
}

// Byproducts deletes every regular file directly inside dir whose name ends
// with one of exts. Files that vanish concurrently are tolerated; other
// removal failures are collected and returned after the scan.
func Byproducts(dir string, exts []string) (Result, error) {
	var res Result
	exts = NormalizeExtensions(exts)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return res, fmt.Errorf("read output directory: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !Matches(entry.Name(), exts) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				res.Vanished = append(res.Vanished, entry.Name())
				continue
			}
			slog.Warn("Failed to remove byproduct", logfields.Path(path), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		slog.Debug("Removed byproduct", logfields.File(entry.Name()))
		res.Removed = append(res.Removed, entry.Name())
	}
	return res, errors.Join(errs...)
}
