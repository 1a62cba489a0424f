// Package outdir prepares the directory that receives generated variants.
package outdir

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/multitex/internal/foundation/normalization"
	"git.home.luguber.info/inful/multitex/internal/logfields"
)

// Policy selects how an existing output directory is treated.
type Policy string

const (
	// PolicyClean removes an existing directory and recreates it empty.
	PolicyClean Policy = "clean"
	// PolicyKeep creates the directory only if it is absent.
	PolicyKeep Policy = "keep"
)

var policyNormalizer = normalization.NewNormalizer(map[string]Policy{
	"clean": PolicyClean,
	"keep":  PolicyKeep,
}, PolicyClean)

// ParsePolicy converts user input to a Policy. Empty input selects PolicyClean.
func ParsePolicy(raw string) (Policy, error) {
	return policyNormalizer.Parse(raw)
}

// ErrUnsafeDirectory is returned when cleaning would remove something it must not.
var ErrUnsafeDirectory = errors.New("refusing to clean output directory")

// Manager prepares one output directory.
type Manager struct {
	dir    string
	policy Policy
	// protect lists paths that must not live inside a cleaned directory.
	protect []string
}

// NewManager returns a Manager for dir. Paths in protect (typically the
// source document) must not be inside dir when the policy is PolicyClean.
func NewManager(dir string, policy Policy, protect ...string) *Manager {
	if policy == "" {
		policy = PolicyClean
	}
	return &Manager{dir: dir, policy: policy, protect: protect}
}

// Path returns the managed directory.
func (m *Manager) Path() string {
	return m.dir
}

// Prepare applies the policy so the directory exists and is ready for writes.
func (m *Manager) Prepare() error {
	if m.dir == "" {
		return fmt.Errorf("output directory not set")
	}

	if m.policy == PolicyKeep {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		slog.Debug("Using existing output directory", logfields.OutputDir(m.dir))
		return nil
	}

	info, err := os.Stat(m.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to stat output directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", ErrUnsafeDirectory, m.dir)
	default:
		if err := m.checkSafe(); err != nil {
			return err
		}
		if err := os.RemoveAll(m.dir); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
		slog.Info("Cleaned output directory", logfields.OutputDir(m.dir))
	}

	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (m *Manager) checkSafe() error {
	abs, err := filepath.Abs(m.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeDirectory, m.dir)
	}
	if wd, err := os.Getwd(); err == nil && isWithin(wd, abs) {
		return fmt.Errorf("%w: %s contains the working directory", ErrUnsafeDirectory, m.dir)
	}
	for _, p := range m.protect {
		pa, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if isWithin(pa, abs) {
			return fmt.Errorf("%w: %s contains %s", ErrUnsafeDirectory, m.dir, p)
		}
	}
	return nil
}

// isWithin reports whether path equals dir or is nested below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
