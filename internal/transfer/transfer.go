// Package transfer moves key directories between author workspaces and the
// shared staging area.
//
// Intake pulls an author's finished captures into staging for the pipeline;
// release hands staged keys back to an author workspace. Moves never
// overwrite: a key already present at the destination is skipped so a rerun
// after a partial failure only picks up the remainder.
package transfer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stagehand/internal/fileutil"
	"stagehand/internal/logging"
	"stagehand/internal/ownership"
	"stagehand/internal/paths"
	"stagehand/internal/report"
)

// Intake moves keys from the author's workspace into staging and re-owns
// them to the staging owner.
func Intake(logger *slog.Logger, layout paths.Layout, keys []string, author string, owner ownership.Pair) *report.Report {
	return moveKeys(logger, moveSpec{
		operation: "intake",
		sourceDir: layout.AuthorOutputs(author),
		destDir:   layout.Staging(),
		owner:     owner,
		keys:      keys,
	})
}

// Release moves staged keys into the author's workspace and re-owns them to
// the archive owner, matching the historical hand-back behavior.
func Release(logger *slog.Logger, layout paths.Layout, keys []string, author string, owner ownership.Pair) *report.Report {
	return moveKeys(logger, moveSpec{
		operation: "release",
		sourceDir: layout.Staging(),
		destDir:   layout.AuthorOutputs(author),
		owner:     owner,
		keys:      keys,
	})
}

type moveSpec struct {
	operation string
	sourceDir string
	destDir   string
	owner     ownership.Pair
	keys      []string
}

func moveKeys(logger *slog.Logger, spec moveSpec) *report.Report {
	rep := report.New(spec.operation)
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("moving keys",
		logging.String("operation", spec.operation),
		logging.String("source", spec.sourceDir),
		logging.String("destination", spec.destDir),
		logging.Int("keys", len(spec.keys)),
	)

	if len(spec.keys) == 0 {
		logger.Warn("no keys to move")
		return rep
	}
	if info, err := os.Stat(spec.sourceDir); err != nil || !info.IsDir() {
		logger.Warn("source directory does not exist", logging.String("source", spec.sourceDir))
		for _, key := range spec.keys {
			rep.Skip(key, fmt.Sprintf("source directory does not exist: %s", spec.sourceDir))
		}
		return rep
	}
	if err := os.MkdirAll(spec.destDir, 0o755); err != nil {
		for _, key := range spec.keys {
			rep.Fail(key, fmt.Errorf("create destination: %w", err))
		}
		return rep
	}

	for _, key := range spec.keys {
		src := filepath.Join(spec.sourceDir, key)
		dst := filepath.Join(spec.destDir, key)

		if _, err := os.Stat(src); err != nil {
			logger.Warn("source key not found", logging.String("key", key))
			rep.Skip(key, "source not found")
			continue
		}
		if _, err := os.Stat(dst); err == nil {
			logger.Warn("destination already exists", logging.String("key", key), logging.String("destination", dst))
			rep.Skip(key, "already exists at destination")
			continue
		}

		if err := fileutil.MoveDir(src, dst); err != nil {
			logger.Error("move failed", logging.String("key", key), logging.Error(err))
			rep.Fail(key, err)
			continue
		}
		if err := ownership.ChownRecursive(dst, spec.owner); err != nil {
			// The move itself succeeded; ownership needs privileges the
			// current user may not have.
			logger.Warn("chown after move failed",
				logging.String("key", key),
				logging.String("owner", spec.owner.String()),
				logging.Error(err),
			)
		}
		logger.Info("moved", logging.String("key", key))
		rep.Success(key)
	}
	return rep
}
