package report_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"stagehand/internal/report"
)

func TestSummaryIncludesErrorDetails(t *testing.T) {
	r := report.New("intake")
	r.Success("k1")
	r.Skip("k2", "already exists")
	r.Fail("k3", errors.New("permission denied"))

	summary := r.Summary()
	if !strings.Contains(summary, "Summary for intake") {
		t.Errorf("missing operation name:\n%s", summary)
	}
	if !strings.Contains(summary, "Succeeded: 1") || !strings.Contains(summary, "Errors:    1") {
		t.Errorf("bad counts:\n%s", summary)
	}
	if !strings.Contains(summary, "k3: permission denied") {
		t.Errorf("missing error detail:\n%s", summary)
	}
	if !r.Failed() {
		t.Error("Failed() = false with recorded errors")
	}
}

func TestWriteAndReadSucceeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "step.json")
	r := report.New("fill")
	r.Success("alpha")
	r.Success("beta")

	if err := r.WriteSucceeded(path); err != nil {
		t.Fatalf("WriteSucceeded: %v", err)
	}
	keys, err := report.ReadSucceeded(path)
	if err != nil {
		t.Fatalf("ReadSucceeded: %v", err)
	}
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "beta" {
		t.Fatalf("keys = %v", keys)
	}
}

func TestWriteSucceededEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.json")
	if err := report.New("noop").WriteSucceeded(path); err != nil {
		t.Fatalf("WriteSucceeded: %v", err)
	}
	keys, err := report.ReadSucceeded(path)
	if err != nil {
		t.Fatalf("ReadSucceeded: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("keys = %v, want empty", keys)
	}
}

func TestWriteSucceededNoPath(t *testing.T) {
	if err := report.New("noop").WriteSucceeded("  "); err != nil {
		t.Fatalf("blank path should be a no-op, got %v", err)
	}
}
