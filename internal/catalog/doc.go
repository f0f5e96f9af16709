// Package catalog persists published key metadata in a SQLite ledger.
//
// The ledger is the system of record for which keys have entered the
// archive pipeline: publishing is idempotent, so re-running the publish
// step never duplicates or rewrites an entry. The database lives alongside
// the run logs in the configured log directory.
package catalog
