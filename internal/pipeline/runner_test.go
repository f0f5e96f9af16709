package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"stagehand/internal/logging"
	"stagehand/internal/metadata"
	"stagehand/internal/paths"
	"stagehand/internal/pipeline"
	"stagehand/internal/report"
	"stagehand/internal/testsupport"
)

func TestRunCarriesKeysThroughEveryStep(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeys("k1", "k2"))
	layout := paths.NewLayout(cfg)
	for _, key := range cfg.Keys {
		testsupport.SeedKey(t, layout.AuthorOutputs("ana"), key, map[string]string{
			"scene/scene.pkl": "pkl",
		})
	}

	var out bytes.Buffer
	runner := pipeline.NewRunner(cfg, logging.NewNop())
	res, err := runner.Run(context.Background(), pipeline.Options{
		Author: "ana",
		Week:   "week_9",
		Out:    &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Steps) != 5 {
		t.Fatalf("steps = %d", len(res.Steps))
	}

	for _, key := range cfg.Keys {
		for _, step := range []string{"intake", "metadata", "storage", "publish", "archive"} {
			if mark := res.Grid.Mark(key, step); mark != pipeline.MarkOK {
				t.Errorf("grid[%s][%s] = %q", key, step, mark)
			}
		}
		archived := layout.ArchiveKey("week_9", "ana", key)
		sidecar, err := metadata.Load(filepath.Join(archived, metadata.Filename))
		if err != nil {
			t.Fatalf("archived sidecar for %s: %v", key, err)
		}
		if sidecar.Author != "ana" || sidecar.Week != "week_9" || !sidecar.Synced {
			t.Errorf("sidecar for %s = %+v", key, sidecar)
		}
	}

	store := testsupport.MustOpenCatalog(t, cfg)
	if _, err := store.Get(context.Background(), "k1"); err != nil {
		t.Errorf("catalog entry missing: %v", err)
	}

	succeeded, err := report.ReadSucceeded(filepath.Join(res.LogDir, "archive.json"))
	if err != nil {
		t.Fatalf("read succeeded keys: %v", err)
	}
	if len(succeeded) != 2 {
		t.Errorf("archive succeeded keys = %v", succeeded)
	}
	if _, err := os.Stat(filepath.Join(res.LogDir, "intake.log")); err != nil {
		t.Errorf("intake log missing: %v", err)
	}
	if out.Len() == 0 {
		t.Error("no status output written")
	}
}

func TestRunFromStepMarksEarlierStepsSkipped(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeys("k1"))
	layout := paths.NewLayout(cfg)
	testsupport.SeedKey(t, layout.Staging(), "k1", map[string]string{
		"metadata.yaml": "author: ana\nstatus: pending\nweek: week_9\n",
	})

	runner := pipeline.NewRunner(cfg, logging.NewNop())
	res, err := runner.Run(context.Background(), pipeline.Options{
		Author:   "ana",
		Week:     "week_9",
		FromStep: pipeline.StepArchive,
		Out:      &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Steps) != 1 {
		t.Fatalf("steps = %d", len(res.Steps))
	}
	for _, step := range []string{"intake", "metadata", "storage", "publish"} {
		if mark := res.Grid.Mark("k1", step); mark != pipeline.MarkSkipped {
			t.Errorf("grid[k1][%s] = %q", step, mark)
		}
	}
	if mark := res.Grid.Mark("k1", "archive"); mark != pipeline.MarkOK {
		t.Errorf("grid[k1][archive] = %q", mark)
	}
	if _, err := os.Stat(layout.ArchiveKey("week_9", "ana", "k1")); err != nil {
		t.Errorf("key not archived: %v", err)
	}
}

func TestRunAbortsWhenIntakeFails(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeys("nested/k1"))
	layout := paths.NewLayout(cfg)
	testsupport.SeedKey(t, layout.AuthorOutputs("ana"), "nested/k1", nil)

	// A file where the move needs a directory makes the intake move fail.
	testsupport.WriteFile(t, filepath.Join(layout.Staging(), "nested"), "in the way")

	runner := pipeline.NewRunner(cfg, logging.NewNop())
	res, err := runner.Run(context.Background(), pipeline.Options{
		Author: "ana",
		Week:   "week_9",
		Out:    &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected intake failure to abort the run")
	}
	if len(res.Steps) != 1 {
		t.Errorf("steps after abort = %d", len(res.Steps))
	}
	if mark := res.Grid.Mark("nested/k1", "metadata"); mark != pipeline.MarkPending {
		t.Errorf("later step should stay pending, got %q", mark)
	}
}

func TestRunRequiresAuthorAndWeek(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeys("k1"))
	runner := pipeline.NewRunner(cfg, logging.NewNop())

	if _, err := runner.Run(context.Background(), pipeline.Options{Week: "week_9"}); err == nil {
		t.Error("missing author accepted")
	}
	if _, err := runner.Run(context.Background(), pipeline.Options{Author: "ana"}); err == nil {
		t.Error("missing week accepted")
	}
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeys("k1"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "stagehand.lock"))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-acquire lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = lock.Unlock() }()

	runner := pipeline.NewRunner(cfg, logging.NewNop())
	_, err = runner.Run(context.Background(), pipeline.Options{Author: "ana", Week: "week_9"})
	if !errors.Is(err, pipeline.ErrRunActive) {
		t.Errorf("err = %v, want ErrRunActive", err)
	}
}
