package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stagehand/internal/config"
	"stagehand/internal/logging"
	"stagehand/internal/ownership"
	"stagehand/internal/paths"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	log     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := config.DefaultConfigPath
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the CLI logger from the loaded configuration. Commands call
// this after PersistentPreRunE has resolved the config, so a missing config
// degrades to a stderr logger rather than failing the command twice.
func (c *commandContext) logger() *slog.Logger {
	c.logOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		log, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		c.log = log
	})
	return c.log
}

func (c *commandContext) layout() paths.Layout {
	cfg, _ := c.ensureConfig()
	return paths.NewLayout(cfg)
}

func (c *commandContext) stagingOwner() ownership.Pair {
	cfg, _ := c.ensureConfig()
	return ownership.Pair{UID: cfg.Owner.StagingUID, GID: cfg.Owner.StagingGID}
}

func (c *commandContext) archiveOwner() ownership.Pair {
	cfg, _ := c.ensureConfig()
	return ownership.Pair{UID: cfg.Owner.ArchiveUID, GID: cfg.Owner.ArchiveGID}
}

// rosterKeys resolves the keys a command operates on: the --keys override
// when given, otherwise the configured roster in natural order.
func (c *commandContext) rosterKeys(override []string) []string {
	if len(override) > 0 {
		keys := append([]string(nil), override...)
		sortKeysNatural(keys)
		return keys
	}
	cfg, _ := c.ensureConfig()
	keys := append([]string(nil), cfg.Keys...)
	sortKeysNatural(keys)
	return keys
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
