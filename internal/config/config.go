package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed sample_config.yaml
var sampleConfig string

// envPrefix is stripped from environment overrides, so STAGEHAND_PATHS_ROOT
// maps onto paths.root.
const envPrefix = "STAGEHAND_"

// Paths contains the directory layout of the shared data volume.
type Paths struct {
	Root       string `koanf:"root"`
	StagingDir string `koanf:"staging_dir"`
	ArchiveDir string `koanf:"archive_dir"`
	LogDir     string `koanf:"log_dir"`
}

// Owner contains the uid/gid pairs applied to moved key directories.
type Owner struct {
	StagingUID int `koanf:"staging_uid"`
	StagingGID int `koanf:"staging_gid"`
	ArchiveUID int `koanf:"archive_uid"`
	ArchiveGID int `koanf:"archive_gid"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Pipeline contains configuration for full pipeline runs.
type Pipeline struct {
	RequireSuccess bool `koanf:"require_success"`
}

// Config encapsulates all configuration values for stagehand.
//
// Keys is the roster of capture keys every batch operation iterates over.
// Local optionally restricts intake to a subset of keys; its values carry
// no meaning, only the key names matter.
type Config struct {
	Keys     []string       `koanf:"keys"`
	Local    map[string]any `koanf:"local"`
	Paths    Paths          `koanf:"paths"`
	Owner    Owner          `koanf:"owner"`
	Logging  Logging        `koanf:"logging"`
	Pipeline Pipeline       `koanf:"pipeline"`
}

// DefaultConfigPath is the conventional config location relative to the
// working directory.
const DefaultConfigPath = "config/config.yaml"

// Load parses and validates a configuration file. An empty path resolves to
// DefaultConfigPath. The returned config has all path fields expanded and
// normalized.
func Load(path string) (*Config, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultConfigPath
	}
	expanded, err := expandPath(resolved)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", expanded)
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}

	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(file.Provider(expanded), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", expanded, err)
	}
	// The emptiness check runs before env overrides are merged, so
	// STAGEHAND_* variables cannot mask an empty file.
	if len(k.Keys()) == 0 {
		return nil, fmt.Errorf("config file is empty: %s", expanded)
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IntakeKeys returns the keys intake operates on: the names under local when
// any are declared, otherwise the full roster.
func (c *Config) IntakeKeys() []string {
	if len(c.Local) == 0 {
		return append([]string(nil), c.Keys...)
	}
	keys := make([]string, 0, len(c.Local))
	for key := range c.Local {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// EnsureDirectories creates the directories commands write into. Author
// workspaces and the archive are created lazily by the operations that
// populate them.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() error {
	root, err := expandPath(valueOr(c.Paths.Root, "."))
	if err != nil {
		return err
	}
	c.Paths.Root = root

	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = filepath.Join(root, "staging", "outputs")
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		c.Paths.ArchiveDir = filepath.Join(root, "reconstructions", "data")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(root, "logs")
	}
	for _, field := range []*string{&c.Paths.StagingDir, &c.Paths.ArchiveDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	trimmed := make([]string, 0, len(c.Keys))
	for _, key := range c.Keys {
		if key = strings.TrimSpace(key); key != "" {
			trimmed = append(trimmed, key)
		}
	}
	c.Keys = trimmed
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
