package smartcut

import (
	"context"

	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/search/result"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
)

// --- takeUseCase mock ---

type mockTakeUC struct {
	registerFn func(ctx context.Context, id, fileName, filePath, script string) (domtake.Take, error)
	getFn      func(ctx context.Context, id string) (domtake.Take, error)
	listFn     func(ctx context.Context) ([]domtake.Take, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockTakeUC) Register(
	ctx context.Context, id, fileName, filePath, script string,
) (domtake.Take, error) {
	return m.registerFn(ctx, id, fileName, filePath, script)
}

func (m *mockTakeUC) Get(ctx context.Context, id string) (domtake.Take, error) {
	return m.getFn(ctx, id)
}

func (m *mockTakeUC) List(ctx context.Context) ([]domtake.Take, error) {
	return m.listFn(ctx)
}

func (m *mockTakeUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- pipelineUseCase mock ---

type mockPipelineUC struct {
	enqueueFn func(ctx context.Context, takeID string) (string, error)
	runFn     func(ctx context.Context, runID string) (domrun.Record, error)
	rebuildFn func(ctx context.Context) (int, error)
}

func (m *mockPipelineUC) Enqueue(ctx context.Context, takeID string) (string, error) {
	return m.enqueueFn(ctx, takeID)
}

func (m *mockPipelineUC) Run(ctx context.Context, runID string) (domrun.Record, error) {
	return m.runFn(ctx, runID)
}

func (m *mockPipelineUC) Rebuild(ctx context.Context) (int, error) {
	return m.rebuildFn(ctx)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	resolveFn     func(ctx context.Context, query string, topK int, filters map[string]string) ([]result.Result, error)
	suggestionsFn func(partial string) []string
	statsFn       func() index.Stats
}

func (m *mockSearchUC) Resolve(
	ctx context.Context, query string, topK int, filters map[string]string,
) ([]result.Result, error) {
	return m.resolveFn(ctx, query, topK, filters)
}

func (m *mockSearchUC) Suggestions(partial string) []string {
	return m.suggestionsFn(partial)
}

func (m *mockSearchUC) IndexStats() index.Stats {
	return m.statsFn()
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	takeSvc takeUseCase,
	pipeSvc pipelineUseCase,
	searchSvc searchUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		takeSvc:   takeSvc,
		pipeSvc:   pipeSvc,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}
}
