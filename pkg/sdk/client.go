package smartcut

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/db"
	dbRedis "github.com/cineai/smartcut/internal/db/redis"
	"github.com/cineai/smartcut/internal/domain"
	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/search/result"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/extractor"
	"github.com/cineai/smartcut/internal/index"
	runrepo "github.com/cineai/smartcut/internal/repository/run"
	takerepo "github.com/cineai/smartcut/internal/repository/take"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
	pipelineuc "github.com/cineai/smartcut/internal/usecase/pipeline"
	searchuc "github.com/cineai/smartcut/internal/usecase/search"
	takeuc "github.com/cineai/smartcut/internal/usecase/take"
)

const defaultReadinessTimeout = 10 * time.Second

// Private interfaces so tests can substitute the wired services.
type takeUseCase interface {
	Register(ctx context.Context, id, fileName, filePath, script string) (domtake.Take, error)
	Get(ctx context.Context, id string) (domtake.Take, error)
	List(ctx context.Context) ([]domtake.Take, error)
	Delete(ctx context.Context, id string) error
}

type pipelineUseCase interface {
	Enqueue(ctx context.Context, takeID string) (string, error)
	Run(ctx context.Context, runID string) (domrun.Record, error)
	Rebuild(ctx context.Context) (int, error)
}

type searchUseCase interface {
	Resolve(ctx context.Context, query string, topK int, filters map[string]string) ([]result.Result, error)
	Suggestions(partial string) []string
	IndexStats() index.Stats
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the smartcut SDK entry point.
type Client struct {
	store     db.Store
	takeSvc   takeUseCase
	pipeSvc   pipelineUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	stop      func()
	obs       *observer
}

// New creates a Client, connects to the database, and starts the
// analysis workers. The provided context is used for the readiness
// check and bounds the workers' lifetime.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		provider:   "openai",
		model:      "text-embedding-3-small",
		dimensions: 1536,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("smartcut: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("smartcut: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("smartcut: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	modelTag := domain.ModelTag(cfg.provider, cfg.model, cfg.dimensions)

	var embedder domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}

	takeRepo := takerepo.New(store)
	runRepo := runrepo.New(store)
	idx := index.New(modelTag, cfg.dimensions)
	loadStoredVectors(ctx, takeRepo, idx, modelTag)

	logger := zap.NewNop()
	pipeSvc := pipelineuc.New(
		takeRepo,
		extractor.NewHeuristicVisual(),
		extractor.NewHeuristicAcoustic(),
		extractor.NewHeuristicLinguistic(),
		embedder,
		idx,
		runRepo,
		pipelineuc.Options{
			Workers:         cfg.workers,
			QueueSize:       cfg.queueSize,
			ReferenceScript: cfg.referenceScript,
			ModelTag:        modelTag,
		},
		logger,
	)
	pipeSvc.Start(ctx)

	takeSvc := takeuc.New(takeRepo, idx)
	searchSvc := searchuc.New(takeRepo, embedder, idx, searchuc.Options{
		DefaultTopK: cfg.defaultTopK,
		MaxTopK:     cfg.maxTopK,
	}, logger)
	healthSvc := healthuc.New(store, nil, pipeSvc)

	return &Client{
		store:     store,
		takeSvc:   takeSvc,
		pipeSvc:   pipeSvc,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
		stop:      pipeSvc.Stop,
		obs:       obs,
	}, nil
}

// loadStoredVectors fills a fresh index with vectors embedded under the
// current model tag. Stale tags are ignored; Rebuild re-embeds them.
func loadStoredVectors(ctx context.Context, repo *takerepo.Repo, idx *index.Flat, modelTag string) {
	takes, err := repo.List(ctx)
	if err != nil {
		return
	}
	for i := range takes {
		t := &takes[i]
		if len(t.Embedding) == 0 || t.ModelTag != modelTag {
			continue
		}
		_ = idx.Add(t.ID, t.Embedding)
	}
}

// Close stops the analysis workers and releases the database connection.
func (c *Client) Close() {
	if c.stop != nil {
		c.stop()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health reports aggregated component health.
func (c *Client) Health(ctx context.Context) HealthReport {
	return reportFromDomain(c.healthSvc.Check(ctx))
}

// Takes returns the take management service.
func (c *Client) Takes() *TakeService {
	return &TakeService{takes: c.takeSvc, pipeline: c.pipeSvc, obs: c.obs}
}

// Search returns the intent search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, pipeline: c.pipeSvc, obs: c.obs}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf("%w: embedder not configured (use WithEmbedder)",
		domain.ErrEmbeddingProviderError)
}
