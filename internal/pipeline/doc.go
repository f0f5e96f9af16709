// Package pipeline chains the individual stagehand operations into one
// integration run: intake, metadata fill, storage preparation, catalog
// publish, and archive store.
//
// Each run gets its own timestamped directory under the log directory with
// one log file and one succeeded-keys JSON file per step, so a partial run
// can be resumed from any step. A file lock keeps concurrent runs off the
// shared volume, and a key-by-step status grid is reprinted in place after
// every step when stdout is a terminal.
package pipeline
