package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateKeys(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOwner(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateKeys() error {
	seen := make(map[string]struct{}, len(c.Keys))
	for _, key := range c.Keys {
		if strings.ContainsRune(key, '/') {
			return fmt.Errorf("keys: %q must not contain path separators", key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("keys: %q listed more than once", key)
		}
		seen[key] = struct{}{}
	}
	for key := range c.Local {
		if _, ok := seen[key]; !ok {
			return fmt.Errorf("local: %q is not present in keys", key)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.Root == "" {
		return errors.New("paths.root must be set")
	}
	if c.Paths.StagingDir == c.Paths.ArchiveDir {
		return errors.New("paths.staging_dir and paths.archive_dir must differ")
	}
	return nil
}

func (c *Config) validateOwner() error {
	for name, id := range map[string]int{
		"owner.staging_uid": c.Owner.StagingUID,
		"owner.staging_gid": c.Owner.StagingGID,
		"owner.archive_uid": c.Owner.ArchiveUID,
		"owner.archive_gid": c.Owner.ArchiveGID,
	} {
		if id < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
