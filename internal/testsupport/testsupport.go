// Package testsupport holds fixtures shared by tests across the module:
// profile construction, run cache handles, and file scaffolding.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"cleanplate/internal/profile"
	"cleanplate/internal/runstore"
)

// ProfileOption mutates a test profile before it is handed to the caller.
type ProfileOption func(*profile.Profile)

// NewProfile returns a default profile whose cache, output, and log
// directories all live under a fresh per-test temp root.
func NewProfile(t testing.TB, opts ...ProfileOption) *profile.Profile {
	t.Helper()

	prof := profile.Default()
	base := t.TempDir()
	prof.Paths.CacheDir = filepath.Join(base, "cache")
	prof.Paths.OutputDir = filepath.Join(base, "cleaned")
	prof.Paths.LogDir = filepath.Join(base, "logs")
	for _, opt := range opts {
		opt(&prof)
	}
	return &prof
}

// WithDetectorCommand points the detector at command instead of the
// default binary name.
func WithDetectorCommand(command string) ProfileOption {
	return func(prof *profile.Profile) {
		prof.Detector.Command = command
	}
}

// WithOCRDisabled switches off the OCR text filter.
func WithOCRDisabled() ProfileOption {
	return func(prof *profile.Profile) {
		prof.Preprocessor.OCREnabled = false
	}
}

// MustOpenStore opens the run cache for prof, failing the test on error
// and closing the store when the test finishes.
func MustOpenStore(t testing.TB, prof *profile.Profile) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(prof)
	if err != nil {
		t.Fatalf("open run cache: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// WriteFile places contents at dir/name, creating parent directories on
// the way, and returns the written path.
func WriteFile(t testing.TB, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("prepare %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
