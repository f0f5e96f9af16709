// Package main hosts the stagehand CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the internal
// packages: workspace intake and release, metadata sidecar maintenance,
// storage preparation, catalog publishing, archive moves, ownership fixes,
// and the full pipeline run. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
