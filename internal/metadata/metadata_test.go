package metadata_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stagehand/internal/logging"
	"stagehand/internal/metadata"
)

func writeSidecar(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, metadata.Filename)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPreservesUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := writeSidecar(t, dir, "author: ana\ncapture_device: rig-07\nweek: week_2\n")

	sidecar, err := metadata.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sidecar.Author != "ana" || sidecar.Week != "week_2" {
		t.Fatalf("sidecar = %+v", sidecar)
	}
	if sidecar.Extra["capture_device"] != "rig-07" {
		t.Fatalf("extra fields lost: %+v", sidecar.Extra)
	}

	if err := metadata.Save(path, sidecar); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "capture_device: rig-07") {
		t.Fatalf("round trip dropped extra field:\n%s", data)
	}
}

func TestReconStatusForms(t *testing.T) {
	cases := []struct {
		yaml string
		want bool
	}{
		{"reconstruction_status: success\n", true},
		{"reconstruction_status: SUCCESS\n", true},
		{"reconstruction_status: true\n", true},
		{"reconstruction_status: failed\n", false},
		{"reconstruction_status: false\n", false},
		{"author: ana\n", false},
	}
	for _, tc := range cases {
		dir := t.TempDir()
		path := writeSidecar(t, dir, tc.yaml)
		sidecar, err := metadata.Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", tc.yaml, err)
		}
		if got := sidecar.ReconstructionStatus.Succeeded(); got != tc.want {
			t.Errorf("Succeeded for %q = %v, want %v", tc.yaml, got, tc.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := metadata.Load(filepath.Join(t.TempDir(), metadata.Filename))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestFillCreatesAndUpdates(t *testing.T) {
	base := t.TempDir()
	for _, key := range []string{"k1", "k2"} {
		if err := os.MkdirAll(filepath.Join(base, key), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeSidecar(t, filepath.Join(base, "k2"), "reconstruction_status: success\nnotes: keep\n")

	rep := metadata.Fill(logging.NewNop(), base, []string{"k1", "k2", "absent"}, "ana", "week_5")
	if len(rep.Succeeded) != 2 || len(rep.Skipped) != 1 {
		t.Fatalf("report = %+v", rep)
	}

	for _, key := range []string{"k1", "k2"} {
		sidecar, err := metadata.Load(filepath.Join(base, key, metadata.Filename))
		if err != nil {
			t.Fatalf("Load %s: %v", key, err)
		}
		if sidecar.Author != "ana" || sidecar.Status != metadata.StatusPending || sidecar.Week != "week_5" {
			t.Errorf("%s sidecar = %+v", key, sidecar)
		}
	}

	k2, _ := metadata.Load(filepath.Join(base, "k2", metadata.Filename))
	if !k2.ReconstructionStatus.Succeeded() {
		t.Error("fill clobbered reconstruction_status")
	}
	if k2.Extra["notes"] != "keep" {
		t.Error("fill clobbered extra fields")
	}
}

func TestCheckStatus(t *testing.T) {
	base := t.TempDir()
	seed := map[string]string{
		"good":    "reconstruction_status: success\n",
		"boolean": "reconstruction_status: true\n",
		"bad":     "reconstruction_status: failed\n",
		"empty":   "",
	}
	for key, contents := range seed {
		dir := filepath.Join(base, key)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if contents != "" {
			writeSidecar(t, dir, contents)
		}
	}

	roster := []string{"good", "boolean", "bad", "empty"}
	rep := metadata.CheckStatus(base, roster, nil)
	if len(rep.Success) != 2 {
		t.Errorf("Success = %v", rep.Success)
	}
	if len(rep.NotSuccess) != 1 || rep.NotSuccess[0] != "bad" {
		t.Errorf("NotSuccess = %v", rep.NotSuccess)
	}
	if len(rep.NoMetadata) != 1 || rep.NoMetadata[0] != "empty" {
		t.Errorf("NoMetadata = %v", rep.NoMetadata)
	}

	subset := metadata.CheckStatus(base, roster, []string{"good", "stranger"})
	if len(subset.Success) != 1 || len(subset.Unknown) != 1 || subset.Unknown[0] != "stranger" {
		t.Errorf("subset report = %+v", subset)
	}

	snippet, err := rep.SuccessYAML()
	if err != nil {
		t.Fatalf("SuccessYAML: %v", err)
	}
	if !strings.Contains(snippet, "keys:") || !strings.Contains(snippet, "good") {
		t.Errorf("snippet = %q", snippet)
	}
}
