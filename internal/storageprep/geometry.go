package storageprep

import (
	"log/slog"
	"os"
	"path/filepath"

	"stagehand/internal/logging"
	"stagehand/internal/paths"
)

// GeometrySummary aggregates the results of a geometry sweep.
type GeometrySummary struct {
	Scanned int
	Deleted int
	Missing int
	Errors  int
}

// DeleteGeometry removes the geometry directory inside every key under
// outputsDir. Intermediate geometry is the largest artifact captures carry
// and is never archived.
func DeleteGeometry(logger *slog.Logger, outputsDir string) GeometrySummary {
	if logger == nil {
		logger = logging.NewNop()
	}
	var summary GeometrySummary

	entries, err := os.ReadDir(outputsDir)
	if err != nil {
		logger.Warn("outputs directory not readable", logging.String("dir", outputsDir), logging.Error(err))
		return summary
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		summary.Scanned++
		deleteGeometryIn(logger, filepath.Join(outputsDir, entry.Name()), &summary)
	}
	return summary
}

// DeleteGeometryInArchive removes geometry directories from archived scenes,
// optionally filtered to one week and/or author. Empty filters match all.
func DeleteGeometryInArchive(logger *slog.Logger, layout paths.Layout, week, author string) GeometrySummary {
	if logger == nil {
		logger = logging.NewNop()
	}
	var summary GeometrySummary

	weeks, err := os.ReadDir(layout.Archive())
	if err != nil {
		logger.Warn("archive not readable", logging.String("dir", layout.Archive()), logging.Error(err))
		return summary
	}
	for _, weekEntry := range weeks {
		if !weekEntry.IsDir() || (week != "" && weekEntry.Name() != week) {
			continue
		}
		weekDir := filepath.Join(layout.Archive(), weekEntry.Name())
		authors, err := os.ReadDir(weekDir)
		if err != nil {
			summary.Errors++
			continue
		}
		for _, authorEntry := range authors {
			if !authorEntry.IsDir() || (author != "" && authorEntry.Name() != author) {
				continue
			}
			authorDir := filepath.Join(weekDir, authorEntry.Name())
			scenes, err := os.ReadDir(authorDir)
			if err != nil {
				summary.Errors++
				continue
			}
			for _, scene := range scenes {
				if !scene.IsDir() {
					continue
				}
				summary.Scanned++
				deleteGeometryIn(logger, filepath.Join(authorDir, scene.Name()), &summary)
			}
		}
	}
	return summary
}

func deleteGeometryIn(logger *slog.Logger, sceneDir string, summary *GeometrySummary) {
	geometryPath := filepath.Join(sceneDir, "geometry")
	if _, err := os.Lstat(geometryPath); err != nil {
		summary.Missing++
		return
	}
	if err := os.RemoveAll(geometryPath); err != nil {
		logger.Error("delete geometry failed", logging.String("dir", sceneDir), logging.Error(err))
		summary.Errors++
		return
	}
	logger.Info("deleted geometry", logging.String("dir", sceneDir))
	summary.Deleted++
}
