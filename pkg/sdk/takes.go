package smartcut

import (
	"context"
	"fmt"
	"time"
)

// TakeService manages take registration and analysis.
type TakeService struct {
	takes    takeUseCase
	pipeline pipelineUseCase
	obs      *observer
}

// Register stores a new take with all pipeline stages pending.
func (s *TakeService) Register(ctx context.Context, in TakeInput) (take Take, err error) {
	start := time.Now()
	defer func() { s.obs.observe("take_register", start, err) }()

	t, err := s.takes.Register(ctx, in.ID, in.FileName, in.FilePath, in.Script)
	if err != nil {
		return Take{}, fmt.Errorf("register take: %w", err)
	}
	return takeFromDomain(t), nil
}

// Get returns a take by ID.
func (s *TakeService) Get(ctx context.Context, id string) (take Take, err error) {
	start := time.Now()
	defer func() { s.obs.observe("take_get", start, err) }()

	t, err := s.takes.Get(ctx, id)
	if err != nil {
		return Take{}, fmt.Errorf("get take: %w", err)
	}
	return takeFromDomain(t), nil
}

// List returns every registered take.
func (s *TakeService) List(ctx context.Context) (takes []Take, err error) {
	start := time.Now()
	defer func() { s.obs.observe("take_list", start, err) }()

	ts, err := s.takes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list takes: %w", err)
	}
	out := make([]Take, 0, len(ts))
	for _, t := range ts {
		out = append(out, takeFromDomain(t))
	}
	return out, nil
}

// Delete removes a take and its index entry.
func (s *TakeService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("take_delete", start, err) }()

	if err = s.takes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete take: %w", err)
	}
	return nil
}

// Analyze enqueues a take for (re-)analysis and returns the run ID.
// Returns ErrPipelineBusy when the queue is full.
func (s *TakeService) Analyze(ctx context.Context, id string) (runID string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("take_analyze", start, err) }()

	runID, err = s.pipeline.Enqueue(ctx, id)
	if err != nil {
		return "", fmt.Errorf("analyze take: %w", err)
	}
	return runID, nil
}

// Run returns the ledger entry for an analysis run.
func (s *TakeService) Run(ctx context.Context, runID string) (run Run, err error) {
	start := time.Now()
	defer func() { s.obs.observe("run_get", start, err) }()

	rec, err := s.pipeline.Run(ctx, runID)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return runFromDomain(rec), nil
}
