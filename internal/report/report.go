// Package report accumulates per-key outcomes for batch operations.
//
// Every stagehand operation walks the configured key roster and must keep
// going when individual keys fail; Report collects successes, skips, and
// errors so commands can render one summary at the end and persist the
// succeeded keys for pipeline chaining.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Outcome records why a key was skipped or failed.
type Outcome struct {
	Key    string
	Detail string
}

// Report tracks the result of one batch operation.
type Report struct {
	Operation string
	Succeeded []string
	Skipped   []Outcome
	Errors    []Outcome
}

// New creates a report for the named operation.
func New(operation string) *Report {
	return &Report{Operation: operation}
}

// Success records a key that completed the operation.
func (r *Report) Success(key string) {
	r.Succeeded = append(r.Succeeded, key)
}

// Skip records a key the operation intentionally did not touch.
func (r *Report) Skip(key, detail string) {
	r.Skipped = append(r.Skipped, Outcome{Key: key, Detail: detail})
}

// Fail records a key that errored. The operation continues with other keys.
func (r *Report) Fail(key string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	r.Errors = append(r.Errors, Outcome{Key: key, Detail: detail})
}

// Failed reports whether any key errored.
func (r *Report) Failed() bool {
	return len(r.Errors) > 0
}

// Summary renders the banner summary printed after every batch operation.
func (r *Report) Summary() string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Summary for %s\n", r.Operation)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Succeeded: %d\n", len(r.Succeeded))
	fmt.Fprintf(&b, "Skipped:   %d\n", len(r.Skipped))
	fmt.Fprintf(&b, "Errors:    %d\n", len(r.Errors))
	if len(r.Errors) > 0 {
		fmt.Fprintln(&b, "\nError details:")
		for _, outcome := range r.Errors {
			fmt.Fprintf(&b, "  %s: %s\n", outcome.Key, outcome.Detail)
		}
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}

// WriteSucceeded persists the succeeded key list as a JSON array, creating
// parent directories as needed. Pipeline steps read these files to carry
// results across step boundaries.
func (r *Report) WriteSucceeded(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	keys := r.Succeeded
	if keys == nil {
		keys = []string{}
	}
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal succeeded keys: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write succeeded keys: %w", err)
	}
	return nil
}

// ReadSucceeded loads a key list previously written by WriteSucceeded.
func ReadSucceeded(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse succeeded keys %s: %w", path, err)
	}
	return keys, nil
}
