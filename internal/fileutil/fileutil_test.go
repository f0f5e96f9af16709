package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/fileutil"
)

func TestCopyFilePreserveKeepsModeAndMtime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.CopyFilePreserve(src, dst); err != nil {
		t.Fatalf("CopyFilePreserve: %v", err)
	}

	srcInfo, _ := os.Stat(src)
	dstInfo, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if dstInfo.Mode().Perm() != srcInfo.Mode().Perm() {
		t.Errorf("mode = %v, want %v", dstInfo.Mode().Perm(), srcInfo.Mode().Perm())
	}
	if !dstInfo.ModTime().Equal(srcInfo.ModTime()) {
		t.Errorf("mtime = %v, want %v", dstInfo.ModTime(), srcInfo.ModTime())
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "payload" {
		t.Errorf("contents = %q", data)
	}
}

func TestMoveDirRenames(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "nested", "dst")
	if err := os.MkdirAll(filepath.Join(src, "inner"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "inner", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.MoveDir(src, dst); err != nil {
		t.Fatalf("MoveDir: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists")
	}
	if _, err := os.Stat(filepath.Join(dst, "inner", "f.txt")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
}

func TestMoveDirRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	for _, d := range []string{src, dst} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	if err := fileutil.MoveDir(src, dst); err == nil {
		t.Fatal("expected error for existing destination")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should be untouched: %v", err)
	}
}
