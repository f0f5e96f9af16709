package archive

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stagehand/internal/logging"
	"stagehand/internal/paths"
)

const backgroundRelPath = "simulation/background.jpg"

// BackgroundReport classifies archived keys by whether their simulation
// background image is present.
type BackgroundReport struct {
	Found     []string
	Missing   []string
	NotInTree []string
	Ambiguous []string
}

// CheckBackground looks up each key in the archive and reports whether
// simulation/background.jpg exists inside it. Keys with zero or multiple
// archive matches are reported separately and not inspected.
func CheckBackground(logger *slog.Logger, layout paths.Layout, keys []string) *BackgroundReport {
	rep := &BackgroundReport{}
	if logger == nil {
		logger = logging.NewNop()
	}

	for _, key := range keys {
		matches, err := layout.FindInArchive(key)
		if err != nil {
			logger.Error("archive scan failed", logging.String("key", key), logging.Error(err))
			rep.NotInTree = append(rep.NotInTree, key)
			continue
		}
		switch {
		case len(matches) == 0:
			rep.NotInTree = append(rep.NotInTree, key)
		case len(matches) > 1:
			rep.Ambiguous = append(rep.Ambiguous, key)
		default:
			path := filepath.Join(matches[0].Dir, filepath.FromSlash(backgroundRelPath))
			if _, err := os.Stat(path); err == nil {
				rep.Found = append(rep.Found, key)
			} else {
				logger.Warn("background image missing",
					logging.String("key", key),
					logging.String("path", strings.Join([]string{matches[0].Week, matches[0].Author, key, backgroundRelPath}, "/")),
				)
				rep.Missing = append(rep.Missing, key)
			}
		}
	}
	return rep
}
