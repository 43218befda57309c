// Package pipeline runs the five-stage take analysis: visual, acoustic,
// alignment, scoring, indexing. Takes are processed concurrently by a
// bounded worker pool; stages within one take run strictly in order.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/domain/emotion"
	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/signal"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
	"github.com/cineai/smartcut/internal/metrics"
	"github.com/cineai/smartcut/internal/usecase/scoring"
)

// job is one queued analysis request.
type job struct {
	takeID string
	runID  string
}

// Service orchestrates take analysis.
type Service struct {
	repo     Repository
	visual   VisualExtractor
	acoustic AcousticExtractor
	ling     LinguisticExtractor
	embedder Embedder
	index    Indexer
	runs     RunStore
	modelTag string

	workers      int
	stageTimeout time.Duration
	refScript    string // fallback when a take has no script

	queue  chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	logger *zap.Logger
}

// Options configures the worker pool.
type Options struct {
	Workers         int
	QueueSize       int
	StageTimeout    time.Duration
	ReferenceScript string
	ModelTag        string
}

// New creates a pipeline service. Call Start to launch the workers.
// runs may be nil; run ledger writes are then skipped.
func New(
	repo Repository,
	visual VisualExtractor,
	acoustic AcousticExtractor,
	ling LinguisticExtractor,
	embedder Embedder,
	index Indexer,
	runs RunStore,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = 2 * time.Minute
	}
	return &Service{
		repo:         repo,
		visual:       visual,
		acoustic:     acoustic,
		ling:         ling,
		embedder:     embedder,
		index:        index,
		runs:         runs,
		modelTag:     opts.ModelTag,
		workers:      opts.Workers,
		stageTimeout: opts.StageTimeout,
		refScript:    opts.ReferenceScript,
		queue:        make(chan job, opts.QueueSize),
		logger:       logger,
	}
}

// Start launches the worker pool. Workers stop when Stop is called.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Stop signals the workers and waits for in-flight takes to finish.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Enqueue schedules a take for (re-)analysis and returns the run ID.
// A full queue rejects with ErrPipelineBusy rather than blocking.
func (s *Service) Enqueue(ctx context.Context, takeID string) (string, error) {
	if _, err := s.repo.Get(ctx, takeID); err != nil {
		return "", fmt.Errorf("enqueue take: %w", err)
	}

	j := job{takeID: takeID, runID: uuid.NewString()}
	select {
	case s.queue <- j:
		metrics.PipelineQueueDepth.Set(float64(len(s.queue)))
		s.recordRun(ctx, domrun.Record{
			RunID:    j.runID,
			TakeID:   takeID,
			Status:   domrun.StatusQueued,
			QueuedAt: time.Now().UTC(),
		})
		return j.runID, nil
	default:
		return "", fmt.Errorf("analysis queue full: %w", domain.ErrPipelineBusy)
	}
}

// Run returns the ledger entry for an analysis run.
func (s *Service) Run(ctx context.Context, runID string) (domrun.Record, error) {
	if s.runs == nil {
		return domrun.Record{}, fmt.Errorf("run %s: %w", runID, domain.ErrRunNotFound)
	}
	return s.runs.Get(ctx, runID)
}

// recordRun writes a ledger entry, logging rather than failing the
// analysis when the ledger is unavailable.
func (s *Service) recordRun(ctx context.Context, rec domrun.Record) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(ctx, rec); err != nil {
		s.logger.Warn("Failed to record run state",
			zap.String("run_id", rec.RunID),
			zap.String("status", rec.Status),
			zap.Error(err),
		)
	}
}

// QueueDepth reports how many analysis jobs are waiting.
func (s *Service) QueueDepth() int { return len(s.queue) }

// QueueCapacity reports the queue bound.
func (s *Service) QueueCapacity() int { return cap(s.queue) }

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			metrics.PipelineQueueDepth.Set(float64(len(s.queue)))
			s.process(ctx, j)
		}
	}
}

// process runs all five stages for one take. Extraction failures mark
// the stage failed and continue with neutral substitutes downstream.
func (s *Service) process(ctx context.Context, j job) {
	log := s.logger.With(zap.String("take_id", j.takeID), zap.String("run_id", j.runID))

	s.recordRun(ctx, domrun.Record{RunID: j.runID, Status: domrun.StatusRunning, StartedAt: time.Now().UTC()})

	t, err := s.repo.Get(ctx, j.takeID)
	if err != nil {
		log.Error("Failed to load take for analysis", zap.Error(err))
		s.recordRun(ctx, domrun.Record{
			RunID:      j.runID,
			Status:     domrun.StatusFailed,
			FinishedAt: time.Now().UTC(),
			Error:      err.Error(),
		})
		return
	}
	resetForAnalysis(&t)
	if err := s.repo.Save(ctx, &t); err != nil {
		log.Error("Failed to persist reset take", zap.Error(err))
		s.recordRun(ctx, domrun.Record{
			RunID:      j.runID,
			Status:     domrun.StatusFailed,
			FinishedAt: time.Now().UTC(),
			Error:      err.Error(),
		})
		return
	}

	s.runStage(ctx, log, &t, domtake.StageVisual, func(stageCtx context.Context) error {
		vis, err := s.visual.ExtractVisual(stageCtx, t.FilePath)
		if err != nil {
			return err
		}
		t.Visual = &vis
		if vis.DurationSec > 0 {
			t.DurationSec = vis.DurationSec
		}
		return nil
	})

	s.runStage(ctx, log, &t, domtake.StageAcoustic, func(stageCtx context.Context) error {
		ac, err := s.acoustic.ExtractAcoustic(stageCtx, t.FilePath)
		if err != nil {
			return err
		}
		t.Acoustic = &ac
		return nil
	})

	s.runStage(ctx, log, &t, domtake.StageAlignment, func(stageCtx context.Context) error {
		transcript := ""
		if t.Acoustic != nil {
			transcript = t.Acoustic.Transcript
		}
		script := t.Script
		if script == "" {
			script = s.refScript
		}
		ling, err := s.ling.ExtractLinguistic(stageCtx, transcript, script, t.FileName)
		if err != nil {
			return err
		}
		t.Linguistic = &ling
		return nil
	})

	// Scoring is pure and cannot fail; a degraded outcome is still an outcome.
	s.runStage(ctx, log, &t, domtake.StageScoring, func(context.Context) error {
		s.score(&t)
		return nil
	})

	s.runStage(ctx, log, &t, domtake.StageIndexing, func(stageCtx context.Context) error {
		return s.indexTake(stageCtx, &t)
	})

	t.AnalyzedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, &t); err != nil {
		log.Error("Failed to persist analyzed take", zap.Error(err))
		return
	}

	status := analysisStatus(&t)
	s.recordRun(ctx, domrun.Record{RunID: j.runID, Status: status, FinishedAt: time.Now().UTC()})

	metrics.TakesAnalyzedTotal.WithLabelValues(status).Inc()
	log.Info("Take analysis finished",
		zap.Float64("confidence", t.Confidence),
		zap.String("emotion", string(t.Emotion)),
		zap.Bool("degraded", t.Degraded),
	)
}

// runStage executes one stage with the configured timeout and records
// its state transition and metrics. State changes are persisted so
// status reads see live progress.
func (s *Service) runStage(
	ctx context.Context,
	log *zap.Logger,
	t *domtake.Take,
	stage domtake.Stage,
	fn func(ctx context.Context) error,
) {
	t.StageStates[stage] = domtake.StageRunning
	if err := s.repo.Save(ctx, t); err != nil {
		log.Warn("Failed to persist stage transition", zap.String("stage", string(stage)), zap.Error(err))
	}

	stageCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	start := time.Now()
	err := fn(stageCtx)
	metrics.PipelineStageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())

	if err != nil {
		t.StageStates[stage] = domtake.StageFailed
		metrics.PipelineStagesTotal.WithLabelValues(string(stage), "failed").Inc()
		log.Warn("Pipeline stage failed", zap.String("stage", string(stage)), zap.Error(err))
	} else {
		t.StageStates[stage] = domtake.StageCompleted
		metrics.PipelineStagesTotal.WithLabelValues(string(stage), "completed").Inc()
	}

	if err := s.repo.Save(ctx, t); err != nil {
		log.Warn("Failed to persist stage result", zap.String("stage", string(stage)), zap.Error(err))
	}
}

// score fills pillars, composite confidence, emotion, and pacing.
func (s *Service) score(t *domtake.Take) {
	out := scoring.Score(scoring.Inputs{
		Visual:     t.Visual,
		Acoustic:   t.Acoustic,
		Linguistic: t.Linguistic,
	})
	t.Pillars = &out.Pillars
	t.Confidence = out.Confidence
	t.Reasoning = out.Reasoning
	t.Degraded = out.Degraded

	vis := signal.NeutralVisual()
	if t.Visual != nil {
		vis = *t.Visual
	}
	ac := signal.NeutralAcoustic()
	if t.Acoustic != nil {
		ac = *t.Acoustic
	}
	ling := signal.NeutralLinguistic()
	if t.Linguistic != nil {
		ling = *t.Linguistic
	}

	emo := emotion.Infer(ling, ac, vis, t.FileName)
	t.Emotion = emo.Label
	t.EmotionConfidence = emo.Confidence
	t.PacingWPS = ac.WordsPerSec
}

// indexTake builds the descriptive text, embeds it, and inserts the
// vector into the search index under the current model tag.
func (s *Service) indexTake(ctx context.Context, t *domtake.Take) error {
	if err := s.index.VerifyTag(s.modelTag); err != nil {
		return err
	}

	t.Description = BuildDescription(t)
	result, err := s.embedder.Embed(ctx, t.Description)
	if err != nil {
		return fmt.Errorf("embed take description: %w", err)
	}

	if err := s.index.Add(t.ID, result.Embedding); err != nil {
		return fmt.Errorf("index take: %w", err)
	}
	t.Embedding = result.Embedding
	t.ModelTag = s.modelTag
	return nil
}

// Rebuild re-embeds stored takes under the current model tag and swaps
// the index contents in one atomic step. Takes that never reached the
// indexing stage are skipped; takes whose stored vector already carries
// the current tag are reused without another provider round trip.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	takes, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list takes for rebuild: %w", err)
	}

	entries := make([]index.Entry, 0, len(takes))
	for i := range takes {
		t := &takes[i]
		if t.Description == "" {
			continue
		}
		vec := t.Embedding
		if len(vec) == 0 || t.ModelTag != s.modelTag {
			result, err := s.embedder.Embed(ctx, t.Description)
			if err != nil {
				return 0, fmt.Errorf("re-embed take %s: %w", t.ID, err)
			}
			vec = result.Embedding
			t.Embedding = vec
			t.ModelTag = s.modelTag
			if err := s.repo.Save(ctx, t); err != nil {
				s.logger.Warn("Failed to persist re-embedded take",
					zap.String("take_id", t.ID), zap.Error(err))
			}
		}
		entries = append(entries, index.Entry{TakeID: t.ID, Vector: vec})
	}

	if err := s.index.Rebuild(entries); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	metrics.IndexSize.Set(float64(len(entries)))
	return len(entries), nil
}

// resetForAnalysis clears derived fields so re-analysis starts clean.
func resetForAnalysis(t *domtake.Take) {
	t.Visual = nil
	t.Acoustic = nil
	t.Linguistic = nil
	t.Pillars = nil
	t.Confidence = 0
	t.Reasoning = nil
	t.Degraded = false
	t.Emotion = ""
	t.EmotionConfidence = 0
	t.PacingWPS = 0
	t.Description = ""
	t.Embedding = nil
	t.ModelTag = ""
	t.AnalyzedAt = time.Time{}
	t.StageStates = make(map[domtake.Stage]domtake.StageState, len(domtake.Stages))
	for _, st := range domtake.Stages {
		t.StageStates[st] = domtake.StagePending
	}
}

func analysisStatus(t *domtake.Take) string {
	for _, st := range domtake.Stages {
		if t.StageStates[st] == domtake.StageFailed {
			return domrun.StatusFailed
		}
	}
	if t.Degraded {
		return domrun.StatusDegraded
	}
	return domrun.StatusCompleted
}
