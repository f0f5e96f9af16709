package storageprep_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/logging"
	"stagehand/internal/storageprep"
	"stagehand/internal/testsupport"
)

func seedFullKey(t *testing.T, base, key string) string {
	t.Helper()
	return testsupport.SeedKey(t, base, key, map[string]string{
		"reconstruction/scenario/scene_optimized.glb": "glb",
		"reconstruction/scene.glb":                    "stale",
		"reconstruction/debug.log":                    "log",
		"reconstruction/pointclouds/cloud.ply":        "ply",
		"reconstruction/objects/chair.mp4":            "vid",
		"reconstruction/objects/table.mp4":            "vid",
		"reconstruction/objects/chair.obj":            "mesh",
		"scene/scene.pkl":                             "pkl",
		"scene/debug.txt":                             "txt",
		"scene/cache/blob.bin":                        "bin",
		"images/frame_00000.jpg":                      "jpg0",
		"images/frame_00001.jpg":                      "jpg1",
		"resized_images/000000.jpg":                   "small0",
		"simulation/background.jpg":                   "bg",
		"geometry/mesh.obj":                           "obj",
		"metadata.yaml":                               "author: ana\n",
	})
}

func TestPrepareConsolidatesKey(t *testing.T) {
	base := t.TempDir()
	keyDir := seedFullKey(t, base, "k1")

	rep := storageprep.Prepare(logging.NewNop(), base, []string{"k1", "absent"})
	if len(rep.Succeeded) != 1 || rep.Succeeded[0] != "k1" {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Skipped) != 1 {
		t.Fatalf("skipped = %+v", rep.Skipped)
	}

	// Optimized scene replaces the stale root scene.glb.
	data, err := os.ReadFile(filepath.Join(keyDir, "reconstruction", "scene.glb"))
	if err != nil || string(data) != "glb" {
		t.Errorf("scene.glb = %q, %v", data, err)
	}

	// Objects keeps mp4s plus index.json, nothing else.
	indexData, err := os.ReadFile(filepath.Join(keyDir, "reconstruction", "objects", "index.json"))
	if err != nil {
		t.Fatalf("index.json: %v", err)
	}
	var names []string
	if err := json.Unmarshal(indexData, &names); err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if len(names) != 2 || names[0] != "chair.mp4" || names[1] != "table.mp4" {
		t.Errorf("index = %v", names)
	}
	if _, err := os.Stat(filepath.Join(keyDir, "reconstruction", "objects", "chair.obj")); !os.IsNotExist(err) {
		t.Error("non-mp4 object survived")
	}

	// Reconstruction keeps only objects/ and scene.glb.
	entries, _ := os.ReadDir(filepath.Join(keyDir, "reconstruction"))
	if len(entries) != 2 {
		t.Errorf("reconstruction entries = %v", entryNames(entries))
	}

	// Scene keeps only scene.pkl.
	entries, _ = os.ReadDir(filepath.Join(keyDir, "scene"))
	if len(entries) != 1 || entries[0].Name() != "scene.pkl" {
		t.Errorf("scene entries = %v", entryNames(entries))
	}

	// First frames are copied into source/.
	for _, name := range []string{"frame_00000.jpg", "000000.jpg"} {
		if _, err := os.Stat(filepath.Join(keyDir, "source", name)); err != nil {
			t.Errorf("source frame %s missing: %v", name, err)
		}
	}

	// Top level keeps only the essential directories and the sidecar.
	entries, _ = os.ReadDir(keyDir)
	got := entryNames(entries)
	want := map[string]bool{"simulation": true, "reconstruction": true, "scene": true, "source": true, "metadata.yaml": true}
	if len(got) != len(want) {
		t.Errorf("top-level entries = %v", got)
	}
	for _, name := range got {
		if !want[name] {
			t.Errorf("unexpected top-level entry %q", name)
		}
	}
}

func TestPrepareKeyWithoutOptionalArtifacts(t *testing.T) {
	base := t.TempDir()
	testsupport.SeedKey(t, base, "sparse", map[string]string{
		"metadata.yaml": "author: ana\n",
	})

	rep := storageprep.Prepare(logging.NewNop(), base, []string{"sparse"})
	if len(rep.Succeeded) != 1 {
		t.Fatalf("report = %+v", rep)
	}
	// source/ is still created, just empty.
	entries, err := os.ReadDir(filepath.Join(base, "sparse", "source"))
	if err != nil || len(entries) != 0 {
		t.Errorf("source dir = %v, %v", entryNames(entries), err)
	}
}

func TestPrepareIndexOverwrite(t *testing.T) {
	base := t.TempDir()
	keyDir := testsupport.SeedKey(t, base, "k1", map[string]string{
		"reconstruction/objects/a.mp4":       "vid",
		"reconstruction/objects/index.json":  "[\"stale\"]",
		"metadata.yaml":                      "author: ana\n",
	})

	rep := storageprep.Prepare(logging.NewNop(), base, []string{"k1"})
	if len(rep.Succeeded) != 1 {
		t.Fatalf("report = %+v", rep)
	}
	data, _ := os.ReadFile(filepath.Join(keyDir, "reconstruction", "objects", "index.json"))
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "a.mp4" {
		t.Errorf("index = %v", names)
	}
}

func entryNames(entries []os.DirEntry) []string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names
}
