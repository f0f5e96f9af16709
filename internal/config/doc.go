// Package config loads and validates the stagehand configuration file.
//
// Configuration is YAML, loaded with koanf from an explicit --config path
// (the conventional location is config/config.yaml) and overridable through
// STAGEHAND_-prefixed environment variables. The package owns defaulting,
// path expansion, and validation so commands receive a config whose paths
// are absolute and whose values are known-good.
package config
