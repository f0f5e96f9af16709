package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The current process owner is used for every owner pair so chown calls
// succeed without privileges.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Root = base
	cfg.Paths.StagingDir = filepath.Join(base, "staging", "outputs")
	cfg.Paths.ArchiveDir = filepath.Join(base, "reconstructions", "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Owner.StagingUID = os.Getuid()
	cfg.Owner.StagingGID = os.Getgid()
	cfg.Owner.ArchiveUID = os.Getuid()
	cfg.Owner.ArchiveGID = os.Getgid()

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithKeys sets the key roster on the test config.
func WithKeys(keys ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Keys = keys
	}
}

// WithLocalKeys restricts intake to the given keys.
func WithLocalKeys(keys ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Local = make(map[string]any, len(keys))
		for _, key := range keys {
			cfg.Local[key] = nil
		}
	}
}

// WithRequireSuccess sets the pipeline archive gate.
func WithRequireSuccess() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.RequireSuccess = true
	}
}
