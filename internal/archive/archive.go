// Package archive moves finished keys between staging and the long-term
// week/author archive tree.
//
// The archive location of a key is decided by its metadata sidecar, never by
// the caller: store reads week and author from metadata.yaml, and restore
// searches the whole tree for the key. A key found in more than one
// week/author slot is ambiguous and is always skipped rather than guessed.
package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stagehand/internal/fileutil"
	"stagehand/internal/logging"
	"stagehand/internal/metadata"
	"stagehand/internal/ownership"
	"stagehand/internal/paths"
	"stagehand/internal/report"
)

// StoreOptions controls how keys are archived.
type StoreOptions struct {
	// RequireSuccess skips keys whose sidecar does not record a
	// successful reconstruction.
	RequireSuccess bool
	Owner          ownership.Pair
}

// Store moves staged keys into <archive>/<week>/<author>/<key>, taking week
// and author from each key's sidecar. Keys already archived are skipped.
func Store(logger *slog.Logger, layout paths.Layout, keys []string, opts StoreOptions) *report.Report {
	rep := report.New("archive store")
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("archiving staged keys",
		logging.String("staging", layout.Staging()),
		logging.String("archive", layout.Archive()),
		logging.Int("keys", len(keys)),
		logging.Bool("require_success", opts.RequireSuccess),
	)
	if len(keys) == 0 {
		logger.Warn("no keys to archive")
		return rep
	}

	for _, key := range keys {
		src := layout.StagingKey(key)
		if _, err := os.Stat(src); err != nil {
			logger.Warn("key not staged", logging.String("key", key))
			rep.Skip(key, "not staged")
			continue
		}
		sidecar, err := metadata.Load(filepath.Join(src, metadata.Filename))
		if err != nil {
			rep.Fail(key, err)
			continue
		}
		if opts.RequireSuccess && !sidecar.ReconstructionStatus.Succeeded() {
			logger.Warn("reconstruction not successful", logging.String("key", key))
			rep.Skip(key, "reconstruction not successful")
			continue
		}
		week := strings.TrimSpace(sidecar.Week)
		author := strings.TrimSpace(sidecar.Author)
		if week == "" || author == "" {
			rep.Fail(key, fmt.Errorf("sidecar missing week or author"))
			continue
		}

		dst := layout.ArchiveKey(week, author, key)
		if _, err := os.Stat(dst); err == nil {
			logger.Warn("already archived", logging.String("key", key), logging.String("destination", dst))
			rep.Skip(key, "already archived")
			continue
		}
		if err := fileutil.MoveDir(src, dst); err != nil {
			logger.Error("archive move failed", logging.String("key", key), logging.Error(err))
			rep.Fail(key, err)
			continue
		}
		if err := ownership.ChownRecursive(dst, opts.Owner); err != nil {
			logger.Warn("chown after archive failed",
				logging.String("key", key),
				logging.String("owner", opts.Owner.String()),
				logging.Error(err),
			)
		}
		logger.Info("archived", logging.String("key", key),
			logging.String("week", week), logging.String("author", author))
		rep.Success(key)
	}
	return rep
}

// RestoreOptions controls how keys are pulled back out of the archive.
type RestoreOptions struct {
	// Overwrite removes an existing staging copy before the move.
	Overwrite bool
	Owner     ownership.Pair
}

// Restore moves archived keys back into staging. The archive tree is
// searched for each key; zero matches or more than one match is a skip.
func Restore(logger *slog.Logger, layout paths.Layout, keys []string, opts RestoreOptions) *report.Report {
	rep := report.New("archive restore")
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("restoring archived keys",
		logging.String("archive", layout.Archive()),
		logging.String("staging", layout.Staging()),
		logging.Int("keys", len(keys)),
	)
	if len(keys) == 0 {
		logger.Warn("no keys to restore")
		return rep
	}

	for _, key := range keys {
		matches, err := layout.FindInArchive(key)
		if err != nil {
			rep.Fail(key, err)
			continue
		}
		if len(matches) == 0 {
			logger.Warn("not found in archive", logging.String("key", key))
			rep.Skip(key, "not found in archive")
			continue
		}
		if len(matches) > 1 {
			dirs := make([]string, len(matches))
			for i, m := range matches {
				dirs[i] = m.Dir
			}
			logger.Warn("multiple archive matches",
				logging.String("key", key),
				logging.String("matches", strings.Join(dirs, ", ")),
			)
			rep.Skip(key, "multiple archive matches: "+strings.Join(dirs, ", "))
			continue
		}

		match := matches[0]
		dst := layout.StagingKey(key)
		if _, err := os.Stat(dst); err == nil {
			if !opts.Overwrite {
				logger.Warn("already staged", logging.String("key", key))
				rep.Skip(key, "already staged")
				continue
			}
			logger.Warn("removing staged copy before restore", logging.String("key", key))
			if err := os.RemoveAll(dst); err != nil {
				rep.Fail(key, fmt.Errorf("remove staged copy: %w", err))
				continue
			}
		}
		if err := fileutil.MoveDir(match.Dir, dst); err != nil {
			logger.Error("restore move failed", logging.String("key", key), logging.Error(err))
			rep.Fail(key, err)
			continue
		}
		if err := ownership.ChownRecursive(dst, opts.Owner); err != nil {
			logger.Warn("chown after restore failed",
				logging.String("key", key),
				logging.String("owner", opts.Owner.String()),
				logging.Error(err),
			)
		}
		logger.Info("restored", logging.String("key", key),
			logging.String("week", match.Week), logging.String("author", match.Author))
		rep.Success(key)
	}
	return rep
}
