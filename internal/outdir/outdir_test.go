package outdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_CleanPolicyRecreates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "old_3.tex")
	if err := os.WriteFile(stale, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(dir, PolicyClean)
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Output directory missing after Prepare: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("Stale file survived clean prepare: %s", stale)
	}
}

func TestManager_KeepPolicyPreserves(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker.txt")
	if err := os.WriteFile(marker, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(dir, PolicyKeep)
	if err := mgr.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("Keep policy removed existing file: %v", err)
	}
}

func TestManager_CreatesMissingNestedDirectory(t *testing.T) {
	for _, policy := range []Policy{PolicyClean, PolicyKeep} {
		dir := filepath.Join(t.TempDir(), "a", "b")
		if err := NewManager(dir, policy).Prepare(); err != nil {
			t.Fatalf("%s: Prepare() failed: %v", policy, err)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s: expected directory at %s", policy, dir)
		}
	}
}

func TestManager_RefusesToCleanSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "doc.tex")
	if err := os.WriteFile(source, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := NewManager(dir, PolicyClean, source).Prepare()
	if !errors.Is(err, ErrUnsafeDirectory) {
		t.Fatalf("expected ErrUnsafeDirectory, got %v", err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Errorf("source was removed: %v", err)
	}
}

func TestManager_RefusesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := NewManager(path, PolicyClean).Prepare(); !errors.Is(err, ErrUnsafeDirectory) {
		t.Fatalf("expected ErrUnsafeDirectory, got %v", err)
	}
}

func TestManager_EmptyPath(t *testing.T) {
	if err := NewManager("", PolicyClean).Prepare(); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	if err != nil || p != PolicyClean {
		t.Fatalf("expected default clean policy, got %q (%v)", p, err)
	}
	p, err = ParsePolicy("KEEP")
	if err != nil || p != PolicyKeep {
		t.Fatalf("expected keep policy, got %q (%v)", p, err)
	}
	if _, err := ParsePolicy("wipe"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestIsWithin(t *testing.T) {
	sep := string(filepath.Separator)
	cases := []struct {
		path, dir string
		want      bool
	}{
		{sep + "a" + sep + "b", sep + "a", true},
		{sep + "a", sep + "a", true},
		{sep + "ab", sep + "a", false},
		{sep + "x" + sep + "..b", sep + "x", true},
		{sep + "c", sep + "a", false},
	}
	for _, c := range cases {
		if got := isWithin(c.path, c.dir); got != c.want {
			t.Errorf("isWithin(%q, %q) = %v, want %v", c.path, c.dir, got, c.want)
		}
	}
}
