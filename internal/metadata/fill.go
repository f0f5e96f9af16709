package metadata

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"stagehand/internal/logging"
	"stagehand/internal/report"
)

// Fill stamps author, status: pending, and week into the sidecar of every
// key under baseDir, creating sidecars that do not exist yet. Fields the
// pipeline does not manage are preserved.
func Fill(logger *slog.Logger, baseDir string, keys []string, author, week string) *report.Report {
	rep := report.New("fill metadata")
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("filling metadata",
		logging.String("base", baseDir),
		logging.String("author", author),
		logging.String("week", week),
		logging.Int("keys", len(keys)),
	)

	for _, key := range keys {
		keyDir := filepath.Join(baseDir, key)
		if info, err := os.Stat(keyDir); err != nil || !info.IsDir() {
			logger.Warn("key directory not found", logging.String("key", key))
			rep.Skip(key, "key directory not found")
			continue
		}

		sidecarPath := filepath.Join(keyDir, Filename)
		sidecar, err := Load(sidecarPath)
		switch {
		case errors.Is(err, ErrNotFound):
			sidecar = &Sidecar{}
		case err != nil:
			logger.Error("load sidecar failed", logging.String("key", key), logging.Error(err))
			rep.Fail(key, err)
			continue
		}

		sidecar.Author = author
		sidecar.Status = StatusPending
		sidecar.Week = week

		if err := Save(sidecarPath, sidecar); err != nil {
			logger.Error("save sidecar failed", logging.String("key", key), logging.Error(err))
			rep.Fail(key, err)
			continue
		}
		logger.Info("metadata updated", logging.String("key", key))
		rep.Success(key)
	}
	return rep
}
