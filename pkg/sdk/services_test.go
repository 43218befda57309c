package smartcut

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/domain/pillar"
	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/search/result"
	"github.com/cineai/smartcut/internal/domain/signal"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
)

// --- TakeService ---

func TestTakeService_Register(t *testing.T) {
	mock := &mockTakeUC{
		registerFn: func(_ context.Context, id, fileName, filePath, script string) (domtake.Take, error) {
			if fileName != "scene12_take03.mp4" {
				t.Errorf("fileName = %q", fileName)
			}
			return *domtake.New("t1", fileName, filePath, script), nil
		},
	}

	c := testClient(mock, nil, nil, nil)
	take, err := c.Takes().Register(context.Background(), TakeInput{FileName: "scene12_take03.mp4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if take.ID != "t1" {
		t.Errorf("ID = %q, want t1", take.ID)
	}
	if take.Analyzed {
		t.Error("fresh take reported analyzed")
	}
	if take.StageStates["visual"] != "pending" {
		t.Errorf("visual stage = %q, want pending", take.StageStates["visual"])
	}
}

func TestTakeService_Register_Duplicate(t *testing.T) {
	mock := &mockTakeUC{
		registerFn: func(context.Context, string, string, string, string) (domtake.Take, error) {
			return domtake.Take{}, domain.ErrTakeExists
		},
	}

	c := testClient(mock, nil, nil, nil)
	_, err := c.Takes().Register(context.Background(), TakeInput{FileName: "a.mp4"})
	if !errors.Is(err, ErrTakeExists) {
		t.Errorf("err = %v, want ErrTakeExists", err)
	}
}

func TestTakeService_Get_ConvertsAnalysis(t *testing.T) {
	analyzed := *domtake.New("t1", "a.mp4", "/takes/a.mp4", "")
	for _, st := range domtake.Stages {
		analyzed.StageStates[st] = domtake.StageCompleted
	}
	analyzed.Acoustic = &signal.Acoustic{Transcript: "a hesitant line"}
	analyzed.Pillars = &pillar.Set{Performance: 82, Instinct: 61}
	analyzed.Confidence = 74.5
	analyzed.Emotion = "nervousness"
	analyzed.Embedding = []float32{1, 0}
	analyzed.AnalyzedAt = time.Now().UTC()

	mock := &mockTakeUC{
		getFn: func(context.Context, string) (domtake.Take, error) { return analyzed, nil },
	}

	c := testClient(mock, nil, nil, nil)
	take, err := c.Takes().Get(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !take.Analyzed || !take.Indexed {
		t.Errorf("Analyzed = %v, Indexed = %v", take.Analyzed, take.Indexed)
	}
	if take.Progress != 100 {
		t.Errorf("Progress = %d, want 100", take.Progress)
	}
	if take.Transcript != "a hesitant line" {
		t.Errorf("Transcript = %q", take.Transcript)
	}
	if take.Pillars == nil || take.Pillars.Performance != 82 {
		t.Errorf("Pillars = %+v", take.Pillars)
	}
	if take.Emotion != "nervousness" {
		t.Errorf("Emotion = %q", take.Emotion)
	}
}

func TestTakeService_Get_NotFound(t *testing.T) {
	mock := &mockTakeUC{
		getFn: func(context.Context, string) (domtake.Take, error) {
			return domtake.Take{}, domain.ErrTakeNotFound
		},
	}

	c := testClient(mock, nil, nil, nil)
	_, err := c.Takes().Get(context.Background(), "ghost")
	if !errors.Is(err, ErrTakeNotFound) {
		t.Errorf("err = %v, want ErrTakeNotFound", err)
	}
}

func TestTakeService_List(t *testing.T) {
	mock := &mockTakeUC{
		listFn: func(context.Context) ([]domtake.Take, error) {
			return []domtake.Take{
				*domtake.New("t1", "a.mp4", "/a.mp4", ""),
				*domtake.New("t2", "b.mp4", "/b.mp4", ""),
			}, nil
		},
	}

	c := testClient(mock, nil, nil, nil)
	takes, err := c.Takes().List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(takes) != 2 {
		t.Fatalf("len = %d, want 2", len(takes))
	}
}

func TestTakeService_Delete(t *testing.T) {
	deleted := ""
	mock := &mockTakeUC{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	c := testClient(mock, nil, nil, nil)
	if err := c.Takes().Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "t1" {
		t.Errorf("deleted = %q, want t1", deleted)
	}
}

func TestTakeService_Analyze(t *testing.T) {
	pipe := &mockPipelineUC{
		enqueueFn: func(_ context.Context, takeID string) (string, error) {
			if takeID != "t1" {
				t.Errorf("takeID = %q", takeID)
			}
			return "run-1", nil
		},
	}

	c := testClient(nil, pipe, nil, nil)
	runID, err := c.Takes().Analyze(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runID != "run-1" {
		t.Errorf("runID = %q, want run-1", runID)
	}
}

func TestTakeService_Analyze_QueueFull(t *testing.T) {
	pipe := &mockPipelineUC{
		enqueueFn: func(context.Context, string) (string, error) {
			return "", domain.ErrPipelineBusy
		},
	}

	c := testClient(nil, pipe, nil, nil)
	_, err := c.Takes().Analyze(context.Background(), "t1")
	if !errors.Is(err, ErrPipelineBusy) {
		t.Errorf("err = %v, want ErrPipelineBusy", err)
	}
}

func TestTakeService_Run(t *testing.T) {
	pipe := &mockPipelineUC{
		runFn: func(_ context.Context, runID string) (domrun.Record, error) {
			return domrun.Record{RunID: runID, TakeID: "t1", Status: domrun.StatusCompleted}, nil
		},
	}

	c := testClient(nil, pipe, nil, nil)
	run, err := c.Takes().Run(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != "completed" || !run.Terminal() {
		t.Errorf("run = %+v", run)
	}
}

// --- SearchService ---

func TestSearchService_Query(t *testing.T) {
	mock := &mockSearchUC{
		resolveFn: func(_ context.Context, query string, topK int, filters map[string]string) ([]result.Result, error) {
			if query != "nervous laughter" || topK != 5 {
				t.Errorf("query = %q, topK = %d", query, topK)
			}
			if filters["emotion"] != "joy" {
				t.Errorf("filters = %v", filters)
			}
			return []result.Result{{
				TakeID:       "t1",
				FileName:     "a.mp4",
				Confidence:   0.9,
				MatchSources: []string{result.SourceEmbedding},
			}}, nil
		},
	}

	c := testClient(nil, nil, mock, nil)
	results, err := c.Search().Query(context.Background(), "nervous laughter", 5, map[string]string{"emotion": "joy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].TakeID != "t1" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].MatchSources[0] != "embedding" {
		t.Errorf("MatchSources = %v", results[0].MatchSources)
	}
}

func TestSearchService_Query_Error(t *testing.T) {
	mock := &mockSearchUC{
		resolveFn: func(context.Context, string, int, map[string]string) ([]result.Result, error) {
			return nil, domain.ErrModelTagMismatch
		},
	}

	c := testClient(nil, nil, mock, nil)
	_, err := c.Search().Query(context.Background(), "anything", 0, nil)
	if !errors.Is(err, ErrModelTagMismatch) {
		t.Errorf("err = %v, want ErrModelTagMismatch", err)
	}
}

func TestSearchService_Suggestions(t *testing.T) {
	mock := &mockSearchUC{
		suggestionsFn: func(partial string) []string {
			return []string{"nervous laughter"}
		},
	}

	c := testClient(nil, nil, mock, nil)
	got := c.Search().Suggestions("nerv")
	if len(got) != 1 || got[0] != "nervous laughter" {
		t.Errorf("Suggestions = %v", got)
	}
}

func TestSearchService_Stats(t *testing.T) {
	mock := &mockSearchUC{
		statsFn: func() index.Stats {
			return index.Stats{Size: 3, Generation: 7, Dimensions: 4, ModelTag: "openai/text-embedding-3-small/4"}
		},
	}

	c := testClient(nil, nil, mock, nil)
	stats := c.Search().Stats()
	if stats.Size != 3 || stats.Generation != 7 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSearchService_Rebuild(t *testing.T) {
	pipe := &mockPipelineUC{
		rebuildFn: func(context.Context) (int, error) { return 12, nil },
	}

	c := testClient(nil, pipe, nil, nil)
	n, err := c.Search().Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("entries = %d, want 12", n)
	}
}

// --- Health ---

func TestClient_Health(t *testing.T) {
	mock := &mockHealthUC{
		checkFn: func(context.Context) healthuc.Report {
			return healthuc.Report{
				Status: healthuc.Degraded,
				Checks: map[string]healthuc.CheckResult{
					"database":  healthuc.CheckOK,
					"embedding": healthuc.CheckError,
				},
			}
		},
	}

	c := testClient(nil, nil, nil, mock)
	report := c.Health(context.Background())
	if report.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", report.Status)
	}
	if report.Checks["embedding"] != "error" {
		t.Errorf("Checks = %v", report.Checks)
	}
}
