// Package paths centralizes the directory layout shared by every stagehand
// operation: author workspaces, the staging area, and the week/author
// archive tree.
package paths

import (
	"os"
	"path/filepath"
	"sort"

	"stagehand/internal/config"
)

// Layout resolves locations on the shared data volume.
type Layout struct {
	root    string
	staging string
	archive string
}

// NewLayout builds a Layout from the resolved configuration.
func NewLayout(cfg *config.Config) Layout {
	return Layout{
		root:    cfg.Paths.Root,
		staging: cfg.Paths.StagingDir,
		archive: cfg.Paths.ArchiveDir,
	}
}

// Root returns the volume root.
func (l Layout) Root() string { return l.root }

// Staging returns the shared intake directory. Keys live directly below it.
func (l Layout) Staging() string { return l.staging }

// StagingKey returns the staging directory for a single key.
func (l Layout) StagingKey(key string) string {
	return filepath.Join(l.staging, key)
}

// Archive returns the archive base. Keys live at <archive>/<week>/<author>/<key>.
func (l Layout) Archive() string { return l.archive }

// ArchiveKey returns the archive directory for a key under week and author.
func (l Layout) ArchiveKey(week, author, key string) string {
	return filepath.Join(l.archive, week, author, key)
}

// AuthorOutputs returns an author's workspace outputs directory.
func (l Layout) AuthorOutputs(author string) string {
	return filepath.Join(l.root, author, "outputs")
}

// AuthorKey returns the directory for a key inside an author workspace.
func (l Layout) AuthorKey(author, key string) string {
	return filepath.Join(l.root, author, "outputs", key)
}

// ArchiveMatch identifies a key located in the archive tree.
type ArchiveMatch struct {
	Week   string
	Author string
	Dir    string
}

// FindInArchive scans <archive>/<week>/<author>/<key> for directories named
// key. Normally there are zero or one matches; more than one means the key
// was archived twice and callers must not guess.
func (l Layout) FindInArchive(key string) ([]ArchiveMatch, error) {
	weeks, err := os.ReadDir(l.archive)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var matches []ArchiveMatch
	for _, week := range weeks {
		if !week.IsDir() {
			continue
		}
		authors, err := os.ReadDir(filepath.Join(l.archive, week.Name()))
		if err != nil {
			return nil, err
		}
		for _, author := range authors {
			if !author.IsDir() {
				continue
			}
			candidate := filepath.Join(l.archive, week.Name(), author.Name(), key)
			info, err := os.Stat(candidate)
			if err != nil || !info.IsDir() {
				continue
			}
			matches = append(matches, ArchiveMatch{
				Week:   week.Name(),
				Author: author.Name(),
				Dir:    candidate,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Dir < matches[j].Dir })
	return matches, nil
}
