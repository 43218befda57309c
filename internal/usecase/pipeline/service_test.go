package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/domain"
	domrun "github.com/cineai/smartcut/internal/domain/run"
	domtake "github.com/cineai/smartcut/internal/domain/take"
)

func seedTake(t *testing.T, f *pipelineFixture, id string) *domtake.Take {
	t.Helper()
	tk := domtake.New(id, id+".mp4", "/takes/"+id+".mp4", "the quick delivery landed exactly as written")
	if err := f.repo.Save(context.Background(), tk); err != nil {
		t.Fatalf("seed take: %v", err)
	}
	return tk
}

func TestProcessFullRun(t *testing.T) {
	f := newFixture(Options{})
	seedTake(t, f, "t1")

	f.svc.process(context.Background(), job{takeID: "t1", runID: "r1"})

	got, err := f.repo.Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for _, st := range domtake.Stages {
		if got.StageStates[st] != domtake.StageCompleted {
			t.Errorf("stage %s = %s, want completed", st, got.StageStates[st])
		}
	}
	if got.Pillars == nil {
		t.Fatal("expected pillar scores")
	}
	if got.Confidence <= 0 || got.Confidence > 100 {
		t.Errorf("Confidence = %v, want in (0,100]", got.Confidence)
	}
	if got.Degraded {
		t.Error("full inputs should not be degraded")
	}
	if got.Emotion == "" {
		t.Error("expected an inferred emotion")
	}
	if got.Description == "" {
		t.Error("expected a description for indexing")
	}
	if len(got.Embedding) == 0 {
		t.Error("expected a stored embedding")
	}
	if got.ModelTag != "openai/text-embedding-3-small/4" {
		t.Errorf("ModelTag = %q", got.ModelTag)
	}
	if got.AnalyzedAt.IsZero() {
		t.Error("expected AnalyzedAt to be set")
	}
	if _, ok := f.index.added["t1"]; !ok {
		t.Error("expected the take vector in the index")
	}
	if got.DurationSec != 12 {
		t.Errorf("DurationSec = %v, want 12", got.DurationSec)
	}
}

func TestProcessVisualFailureDegrades(t *testing.T) {
	f := newFixture(Options{})
	f.visual.err = errors.New("decoder crashed")
	seedTake(t, f, "t1")

	f.svc.process(context.Background(), job{takeID: "t1", runID: "r1"})

	got, _ := f.repo.Get(context.Background(), "t1")
	if got.StageStates[domtake.StageVisual] != domtake.StageFailed {
		t.Errorf("visual stage = %s, want failed", got.StageStates[domtake.StageVisual])
	}
	if got.StageStates[domtake.StageScoring] != domtake.StageCompleted {
		t.Error("scoring must still run with neutral substitutes")
	}
	if got.Visual != nil {
		t.Error("failed extraction must leave the signal unset")
	}
	if !got.Degraded {
		t.Error("missing visual input must flag the outcome degraded")
	}
	if got.StageStates[domtake.StageIndexing] != domtake.StageCompleted {
		t.Error("indexing should proceed on remaining modalities")
	}
	if len(got.Embedding) == 0 {
		t.Error("degraded takes still get indexed")
	}
}

func TestProcessEmbedFailureKeepsScores(t *testing.T) {
	f := newFixture(Options{})
	f.embedder.err = errors.New("provider down")
	seedTake(t, f, "t1")

	f.svc.process(context.Background(), job{takeID: "t1", runID: "r1"})

	got, _ := f.repo.Get(context.Background(), "t1")
	if got.StageStates[domtake.StageIndexing] != domtake.StageFailed {
		t.Errorf("indexing stage = %s, want failed", got.StageStates[domtake.StageIndexing])
	}
	if got.Pillars == nil || got.Confidence <= 0 {
		t.Error("scoring results must survive an indexing failure")
	}
	if len(got.Embedding) != 0 {
		t.Error("no embedding should be stored on embed failure")
	}
	if !got.Analyzed() {
		t.Error("take should still reach a terminal state")
	}
}

func TestProcessTagMismatchFailsIndexing(t *testing.T) {
	f := newFixture(Options{})
	f.index.tagErr = domain.ErrModelTagMismatch
	seedTake(t, f, "t1")

	f.svc.process(context.Background(), job{takeID: "t1", runID: "r1"})

	got, _ := f.repo.Get(context.Background(), "t1")
	if got.StageStates[domtake.StageIndexing] != domtake.StageFailed {
		t.Error("tag mismatch must fail the indexing stage")
	}
	if f.embedder.calls != 0 {
		t.Error("tag must be verified before spending provider calls")
	}
}

func TestProcessResetsPriorResults(t *testing.T) {
	f := newFixture(Options{})
	seedTake(t, f, "t1")
	f.svc.process(context.Background(), job{takeID: "t1", runID: "r1"})

	// Second run with everything failing must not leak stale results.
	f.visual.err = errors.New("boom")
	f.acoustic.err = errors.New("boom")
	f.ling.err = errors.New("boom")
	f.embedder.err = errors.New("boom")
	f.svc.process(context.Background(), job{takeID: "t1", runID: "r2"})

	got, _ := f.repo.Get(context.Background(), "t1")
	if got.Visual != nil || got.Acoustic != nil || got.Linguistic != nil {
		t.Error("stale signals survived re-analysis")
	}
	if len(got.Embedding) != 0 {
		t.Error("stale embedding survived re-analysis")
	}
	if !got.Degraded {
		t.Error("all-neutral scoring must be degraded")
	}
}

func TestEnqueueUnknownTake(t *testing.T) {
	f := newFixture(Options{})
	_, err := f.svc.Enqueue(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrTakeNotFound) {
		t.Fatalf("err = %v, want ErrTakeNotFound", err)
	}
}

func TestEnqueueFullQueue(t *testing.T) {
	f := newFixture(Options{QueueSize: 1, Workers: 1})
	seedTake(t, f, "t1")
	seedTake(t, f, "t2")

	// Workers are not started, so the first job stays queued.
	if _, err := f.svc.Enqueue(context.Background(), "t1"); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	_, err := f.svc.Enqueue(context.Background(), "t2")
	if !errors.Is(err, domain.ErrPipelineBusy) {
		t.Fatalf("err = %v, want ErrPipelineBusy", err)
	}
}

func TestStartProcessesQueued(t *testing.T) {
	f := newFixture(Options{Workers: 2})
	seedTake(t, f, "t1")

	f.svc.Start(context.Background())
	defer f.svc.Stop()

	runID, err := f.svc.Enqueue(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run ID")
	}

	deadline := time.After(5 * time.Second)
	for {
		got, err := f.repo.Get(context.Background(), "t1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Analyzed() {
			if got.Progress() != 100 {
				t.Errorf("Progress = %d, want 100", got.Progress())
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("analysis did not finish, states: %v", got.StageStates)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRebuildReembedsStaleTags(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	fresh := seedTake(t, f, "fresh")
	fresh.Description = "Take fresh.mp4. Dialogue: all good"
	fresh.Embedding = []float32{0, 1, 0, 0}
	fresh.ModelTag = "openai/text-embedding-3-small/4"
	_ = f.repo.Save(ctx, fresh)

	stale := seedTake(t, f, "stale")
	stale.Description = "Take stale.mp4. Dialogue: old vector"
	stale.Embedding = []float32{0, 0, 1, 0}
	stale.ModelTag = "openai/text-embedding-ada-002/4"
	_ = f.repo.Save(ctx, stale)

	// Never analyzed, no description: skipped entirely.
	seedTake(t, f, "raw")

	n, err := f.svc.Rebuild(ctx)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n != 2 {
		t.Fatalf("rebuilt %d entries, want 2", n)
	}
	if f.embedder.calls != 1 {
		t.Errorf("embedder calls = %d, want 1 (only the stale tag)", f.embedder.calls)
	}
	if len(f.index.rebuilt) != 1 || len(f.index.rebuilt[0]) != 2 {
		t.Fatalf("expected one rebuild with 2 entries, got %v", f.index.rebuilt)
	}

	got, _ := f.repo.Get(ctx, "stale")
	if got.ModelTag != "openai/text-embedding-3-small/4" {
		t.Errorf("stale take tag = %q, want current tag", got.ModelTag)
	}
}

func TestRunLedgerLifecycle(t *testing.T) {
	f := newFixture(Options{QueueSize: 4})
	seedTake(t, f, "t1")
	ctx := context.Background()

	runID, err := f.svc.Enqueue(ctx, "t1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	rec, err := f.svc.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Status != domrun.StatusQueued || rec.TakeID != "t1" {
		t.Errorf("queued record = %+v", rec)
	}
	if rec.QueuedAt.IsZero() {
		t.Error("QueuedAt not set")
	}

	f.svc.process(ctx, job{takeID: "t1", runID: runID})

	rec, err = f.svc.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run after process: %v", err)
	}
	if rec.Status != domrun.StatusCompleted {
		t.Errorf("Status = %q, want completed", rec.Status)
	}
	if !rec.Terminal() {
		t.Error("finished run not terminal")
	}
	if rec.StartedAt.IsZero() || rec.FinishedAt.IsZero() {
		t.Errorf("timestamps missing: %+v", rec)
	}
	if rec.TakeID != "t1" || rec.QueuedAt.IsZero() {
		t.Errorf("enqueue fields lost: %+v", rec)
	}
}

func TestRunLedgerRecordsStageFailure(t *testing.T) {
	f := newFixture(Options{})
	f.visual.err = errors.New("decoder crashed")
	seedTake(t, f, "t1")
	ctx := context.Background()

	runID, err := f.svc.Enqueue(ctx, "t1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	f.svc.process(ctx, job{takeID: "t1", runID: runID})

	rec, err := f.svc.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.Status != domrun.StatusFailed {
		t.Errorf("Status = %q, want failed", rec.Status)
	}
}

func TestRunUnknown(t *testing.T) {
	f := newFixture(Options{})

	_, err := f.svc.Run(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Run() error = %v, want ErrRunNotFound", err)
	}
}

func TestRunWithoutLedger(t *testing.T) {
	f := newFixture(Options{})
	svc := New(f.repo, f.visual, f.acoustic, f.ling, f.embedder, f.index, nil, Options{}, zap.NewNop())
	seedTake(t, f, "t1")
	ctx := context.Background()

	runID, err := svc.Enqueue(ctx, "t1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	svc.process(ctx, job{takeID: "t1", runID: runID})

	if _, err := svc.Run(ctx, runID); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("Run() error = %v, want ErrRunNotFound", err)
	}
}
