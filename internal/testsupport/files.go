package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with the given contents, making parent directories
// as needed.
func WriteFile(t testing.TB, path string, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SeedKey creates a key directory under base populated with the provided
// relative files. A nil or empty files map yields a bare directory.
func SeedKey(t testing.TB, base, key string, files map[string]string) string {
	t.Helper()

	keyDir := filepath.Join(base, key)
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		t.Fatalf("mkdir key %s: %v", keyDir, err)
	}
	for rel, contents := range files {
		WriteFile(t, filepath.Join(keyDir, rel), contents)
	}
	return keyDir
}
