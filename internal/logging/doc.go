// Package logging assembles the structured slog loggers used across
// stagehand commands.
//
// It centralizes level and output plumbing for the console and JSON
// handlers and exposes small attr helpers so call sites do not import
// log/slog directly. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging
