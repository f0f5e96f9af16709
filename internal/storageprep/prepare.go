package storageprep

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stagehand/internal/fileutil"
	"stagehand/internal/logging"
	"stagehand/internal/report"
)

// Directories that survive preparation at the top level of a key. The
// metadata sidecar is a file and is never touched.
var keepTopLevel = map[string]struct{}{
	"simulation":     {},
	"reconstruction": {},
	"scene":          {},
	"source":         {},
}

// Names of the artifacts preparation consolidates.
const (
	optimizedSceneRelPath = "scenario/scene_optimized.glb"
	sceneFileName         = "scene.glb"
	scenePickleName       = "scene.pkl"
	objectsIndexName      = "index.json"
	firstFrameName        = "frame_00000.jpg"
	firstResizedName      = "000000.jpg"
)

// Prepare runs the storage preparation steps for every key under baseDir.
// A key succeeds only when every step succeeds; step failures are collected
// rather than aborting the key, so one bad artifact does not leave the rest
// of the tree unpruned.
func Prepare(logger *slog.Logger, baseDir string, keys []string) *report.Report {
	rep := report.New("prepare for storage")
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("preparing keys for storage", logging.String("base", baseDir), logging.Int("keys", len(keys)))

	for _, key := range keys {
		keyDir := filepath.Join(baseDir, key)
		if info, err := os.Stat(keyDir); err != nil || !info.IsDir() {
			logger.Warn("key directory not found", logging.String("key", key))
			rep.Skip(key, "key directory not found")
			continue
		}
		if errs := prepareKey(logger.With(logging.String("key", key)), keyDir); len(errs) > 0 {
			rep.Fail(key, joinErrors(errs))
			continue
		}
		rep.Success(key)
	}
	return rep
}

func prepareKey(logger *slog.Logger, keyDir string) []error {
	reconDir := filepath.Join(keyDir, "reconstruction")
	objectsDir := filepath.Join(reconDir, "objects")
	sceneDir := filepath.Join(keyDir, "scene")

	var errs []error
	record := func(step string, err error) {
		if err != nil {
			logger.Error("step failed", logging.String("step", step), logging.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step, err))
		}
	}

	moved, err := promoteOptimizedScene(reconDir)
	record("promote scene", err)
	if err == nil && moved {
		logger.Info("promoted optimized scene", logging.String("target", sceneFileName))
	}

	pruned, err := pruneObjects(objectsDir)
	record("prune objects", err)
	if err == nil {
		logger.Info("pruned objects directory", logging.Int("deleted", pruned))
	}

	entries, err := writeObjectsIndex(objectsDir)
	record("write objects index", err)
	if err == nil {
		logger.Info("wrote objects index", logging.Int("entries", entries))
	}

	pruned, err = pruneScene(sceneDir)
	record("prune scene", err)
	if err == nil {
		logger.Info("pruned scene directory", logging.Int("deleted", pruned))
	}

	copied, err := collectSourceFrames(keyDir)
	record("collect source frames", err)
	if err == nil {
		logger.Info("collected source frames", logging.Int("copied", copied))
	}

	filesDeleted, dirsDeleted, err := cleanReconstruction(reconDir)
	record("clean reconstruction", err)
	if err == nil {
		logger.Info("cleaned reconstruction directory",
			logging.Int("files_deleted", filesDeleted),
			logging.Int("dirs_deleted", dirsDeleted),
		)
	}

	deleted, err := deleteOtherTopLevel(keyDir)
	record("delete top-level extras", err)
	if err == nil {
		logger.Info("deleted non-essential top-level directories", logging.Int("deleted", deleted))
	}

	return errs
}

// promoteOptimizedScene moves scenario/scene_optimized.glb to the
// reconstruction root as scene.glb, replacing any existing file. Reports
// whether a move happened.
func promoteOptimizedScene(reconDir string) (bool, error) {
	src := filepath.Join(reconDir, filepath.FromSlash(optimizedSceneRelPath))
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	dst := filepath.Join(reconDir, sceneFileName)
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if err := os.Rename(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

// pruneObjects deletes every non-mp4 file directly under objectsDir.
func pruneObjects(objectsDir string) (int, error) {
	entries, err := os.ReadDir(objectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mp4") {
			continue
		}
		if err := os.Remove(filepath.Join(objectsDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// writeObjectsIndex writes index.json under objectsDir listing the mp4
// filenames in sorted order. Missing objectsDir is not an error.
func writeObjectsIndex(objectsDir string) (int, error) {
	if info, err := os.Stat(objectsDir); err != nil || !info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			return 0, err
		}
		return 0, nil
	}
	names, err := listMP4s(objectsDir)
	if err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(objectsDir, objectsIndexName), data, 0o644); err != nil {
		return 0, err
	}
	return len(names), nil
}

func listMP4s(objectsDir string) ([]string, error) {
	entries, err := os.ReadDir(objectsDir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mp4") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// pruneScene keeps only scene.pkl under sceneDir, deleting any other file
// or subdirectory.
func pruneScene(sceneDir string) (int, error) {
	entries, err := os.ReadDir(sceneDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	deleted := 0
	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() == scenePickleName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(sceneDir, entry.Name())); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// collectSourceFrames creates source/ and copies the first capture frame and
// the first resized frame into it. Frames are fixed names: captures always
// start at frame_00000.jpg and resized sequences at 000000.jpg.
func collectSourceFrames(keyDir string) (int, error) {
	sourceDir := filepath.Join(keyDir, "source")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		return 0, err
	}
	copied := 0
	candidates := []string{
		filepath.Join(keyDir, "images", firstFrameName),
		filepath.Join(keyDir, "resized_images", firstResizedName),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := fileutil.CopyFilePreserve(candidate, filepath.Join(sourceDir, filepath.Base(candidate))); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

// cleanReconstruction keeps only objects/ and scene.glb under reconDir.
func cleanReconstruction(reconDir string) (int, int, error) {
	entries, err := os.ReadDir(reconDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	filesDeleted, dirsDeleted := 0, 0
	for _, entry := range entries {
		target := filepath.Join(reconDir, entry.Name())
		if entry.IsDir() {
			if entry.Name() == "objects" {
				continue
			}
			if err := os.RemoveAll(target); err != nil {
				return filesDeleted, dirsDeleted, err
			}
			dirsDeleted++
			continue
		}
		if entry.Name() == sceneFileName {
			continue
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return filesDeleted, dirsDeleted, err
		}
		filesDeleted++
	}
	return filesDeleted, dirsDeleted, nil
}

// deleteOtherTopLevel removes top-level directories not in keepTopLevel.
func deleteOtherTopLevel(keyDir string) (int, error) {
	entries, err := os.ReadDir(keyDir)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, keep := keepTopLevel[entry.Name()]; keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(keyDir, entry.Name())); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return fmt.Errorf("%d steps failed: %s", len(errs), strings.Join(parts, "; "))
}
