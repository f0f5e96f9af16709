package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stagehand/internal/config"
	"stagehand/internal/paths"
)

type cliTestEnv struct {
	cfg        *config.Config
	layout     paths.Layout
	configPath string
	baseDir    string
}

// setupCLITestEnv writes a config file rooted in a temp directory with the
// current process as owner for every pair, so the chown after each move
// succeeds without privileges.
func setupCLITestEnv(t *testing.T, keys ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config", "config.yaml")
	writeTestConfig(t, configPath, base, keys)

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}
	return &cliTestEnv{
		cfg:        cfg,
		layout:     paths.NewLayout(cfg),
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path, root string, keys []string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("keys:\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "  - %s\n", key)
	}
	fmt.Fprintf(&b, "paths:\n  root: %s\n", root)
	fmt.Fprintf(&b, "owner:\n  staging_uid: %d\n  staging_gid: %d\n  archive_uid: %d\n  archive_gid: %d\n",
		os.Getuid(), os.Getgid(), os.Getuid(), os.Getgid())
	b.WriteString("logging:\n  format: console\n  level: error\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func indexOf(output, substr string) int {
	return strings.Index(output, substr)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
