package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"stagehand/internal/archive"
	"stagehand/internal/catalog"
	"stagehand/internal/config"
	"stagehand/internal/logging"
	"stagehand/internal/metadata"
	"stagehand/internal/ownership"
	"stagehand/internal/paths"
	"stagehand/internal/report"
	"stagehand/internal/storageprep"
	"stagehand/internal/transfer"
)

// StepID identifies one pipeline step. Steps are numbered from 1 so run
// resumption matches the step numbers shown to operators.
type StepID int

const (
	StepIntake StepID = iota + 1
	StepMetadata
	StepStorage
	StepPublish
	StepArchive
)

var stepNames = []string{"intake", "metadata", "storage", "publish", "archive"}

// Name returns the step's grid column name.
func (s StepID) Name() string {
	if s < StepIntake || s > StepArchive {
		return fmt.Sprintf("step-%d", int(s))
	}
	return stepNames[s-1]
}

// ErrRunActive indicates another pipeline run holds the run lock.
var ErrRunActive = errors.New("another pipeline run is active")

// Options parameterizes one pipeline run.
type Options struct {
	Author string
	// Week is stamped into every sidecar during the metadata step.
	Week string
	// FromStep resumes a partial run; earlier steps show as skipped.
	FromStep StepID
	// Out receives the status grid. Defaults to stdout.
	Out io.Writer
}

// StepResult pairs a step with its batch report.
type StepResult struct {
	Step   StepID
	Report *report.Report
}

// Result describes a finished (or aborted) pipeline run.
type Result struct {
	RunID  string
	LogDir string
	Grid   *Grid
	Steps  []StepResult
}

// Runner executes pipeline runs against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	layout paths.Layout
}

// NewRunner builds a Runner. A nil logger disables run-level logging.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, layout: paths.NewLayout(cfg)}
}

// Run executes the pipeline from opts.FromStep through the archive step.
// A failed intake aborts the run; every other step records its failures
// and lets the remaining steps proceed with whatever succeeded.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Author) == "" {
		return nil, errors.New("author is required")
	}
	if strings.TrimSpace(opts.Week) == "" {
		return nil, errors.New("week is required")
	}
	if opts.FromStep == 0 {
		opts.FromStep = StepIntake
	}
	if opts.FromStep < StepIntake || opts.FromStep > StepArchive {
		return nil, fmt.Errorf("invalid starting step %d", int(opts.FromStep))
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "stagehand.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunActive
	}
	defer func() { _ = lock.Unlock() }()

	runID := time.Now().Format("2006-01-02_15-04-05") + "-" + shortRunSuffix()
	runDir := filepath.Join(r.cfg.Paths.LogDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	keys := r.cfg.Keys
	result := &Result{
		RunID:  runID,
		LogDir: runDir,
		Grid:   NewGrid(keys, stepNames, int(opts.FromStep)),
	}

	r.logger.Info("pipeline run starting",
		logging.String("run_id", runID),
		logging.String("author", opts.Author),
		logging.String("week", opts.Week),
		logging.Int("keys", len(keys)),
		logging.Int("from_step", int(opts.FromStep)),
	)

	printer := newGridPrinter(opts.Out)
	printer.Print(result.Grid)

	var store *catalog.Store
	if opts.FromStep <= StepPublish {
		store, err = catalog.Open(r.cfg)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	for step := opts.FromStep; step <= StepArchive; step++ {
		stepLogger, closeLog, err := r.stepLogger(runDir, step)
		if err != nil {
			return result, err
		}

		var rep *report.Report
		switch step {
		case StepIntake:
			rep = transfer.Intake(stepLogger, r.layout, r.cfg.IntakeKeys(), opts.Author, r.stagingOwner())
		case StepMetadata:
			rep = metadata.Fill(stepLogger, r.layout.Staging(), keys, opts.Author, opts.Week)
		case StepStorage:
			rep = storageprep.Prepare(stepLogger, r.layout.Staging(), keys)
		case StepPublish:
			rep = catalog.Publish(ctx, stepLogger, store, r.layout.Staging(), keys)
		case StepArchive:
			rep = archive.Store(stepLogger, r.layout, keys, archive.StoreOptions{
				RequireSuccess: r.cfg.Pipeline.RequireSuccess,
				Owner:          r.archiveOwner(),
			})
		}

		if err := closeLog(); err != nil {
			r.logger.Warn("close step log failed",
				logging.String("step", step.Name()), logging.Error(err))
		}
		if err := rep.WriteSucceeded(filepath.Join(runDir, step.Name()+".json")); err != nil {
			r.logger.Warn("write succeeded keys failed",
				logging.String("step", step.Name()), logging.Error(err))
		}
		result.Steps = append(result.Steps, StepResult{Step: step, Report: rep})
		result.Grid.Apply(step.Name(), rep.Succeeded)
		printer.Print(result.Grid)

		if step == StepIntake && rep.Failed() {
			r.logger.Error("intake failed, aborting run", logging.String("run_id", runID))
			return result, fmt.Errorf("intake failed for %d keys, see %s", len(rep.Errors), runDir)
		}
	}

	r.logger.Info("pipeline run completed",
		logging.String("run_id", runID),
		logging.String("logs", runDir),
	)
	return result, nil
}

// stepLogger builds a logger writing to the step's log file in the run
// directory. The returned close func releases the file handle once the
// step finishes.
func (r *Runner) stepLogger(runDir string, step StepID) (*slog.Logger, func() error, error) {
	path := filepath.Join(runDir, step.Name()+".log")
	logger, closeLog, err := logging.NewFile(path, logging.Options{
		Level:  r.cfg.Logging.Level,
		Format: r.cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open step log %s: %w", path, err)
	}
	return logger, closeLog, nil
}

func (r *Runner) stagingOwner() ownership.Pair {
	return ownership.Pair{UID: r.cfg.Owner.StagingUID, GID: r.cfg.Owner.StagingGID}
}

func (r *Runner) archiveOwner() ownership.Pair {
	return ownership.Pair{UID: r.cfg.Owner.ArchiveUID, GID: r.cfg.Owner.ArchiveGID}
}

// shortRunSuffix keeps run directory names readable while still unique
// within a second.
func shortRunSuffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
