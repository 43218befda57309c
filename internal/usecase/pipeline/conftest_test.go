package pipeline

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/domain"
	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/signal"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
)

// memRepo is an in-memory take repository safe for concurrent workers.
type memRepo struct {
	mu    sync.Mutex
	takes map[string]domtake.Take
}

func newMemRepo() *memRepo {
	return &memRepo{takes: make(map[string]domtake.Take)}
}

func (r *memRepo) Get(_ context.Context, id string) (domtake.Take, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.takes[id]
	if !ok {
		return domtake.Take{}, domain.ErrTakeNotFound
	}
	return t, nil
}

func (r *memRepo) Save(_ context.Context, t *domtake.Take) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takes[t.ID] = *t
	return nil
}

func (r *memRepo) List(_ context.Context) ([]domtake.Take, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domtake.Take, 0, len(r.takes))
	for _, t := range r.takes {
		out = append(out, t)
	}
	return out, nil
}

type fakeVisual struct {
	err error
}

func (f *fakeVisual) ExtractVisual(ctx context.Context, _ string) (signal.Visual, error) {
	if err := ctx.Err(); err != nil {
		return signal.Visual{}, err
	}
	if f.err != nil {
		return signal.Visual{}, f.err
	}
	return signal.Visual{
		DurationSec:    12,
		Objects:        []string{"actor", "desk", "window", "lamp"},
		Energy:         signal.EnergyDynamic,
		Complexity:     signal.ComplexityModerate,
		TechnicalScore: 80,
		Description:    "A well lit interior with steady framing.",
		Confidence:     0.5,
	}, nil
}

type fakeAcoustic struct {
	err error
}

func (f *fakeAcoustic) ExtractAcoustic(ctx context.Context, _ string) (signal.Acoustic, error) {
	if err := ctx.Err(); err != nil {
		return signal.Acoustic{}, err
	}
	if f.err != nil {
		return signal.Acoustic{}, f.err
	}
	return signal.Acoustic{
		Transcript:   "the quick delivery landed exactly as written",
		Language:     "en",
		DurationSec:  12,
		QualityScore: 75,
		WordsPerSec:  2.5,
		Description:  "Clean dialogue with minimal room tone.",
	}, nil
}

type fakeLinguistic struct {
	err error
}

func (f *fakeLinguistic) ExtractLinguistic(ctx context.Context, transcript, _, _ string) (signal.Linguistic, error) {
	if err := ctx.Err(); err != nil {
		return signal.Linguistic{}, err
	}
	if f.err != nil {
		return signal.Linguistic{}, f.err
	}
	sim := 0.9
	if transcript == "" {
		sim = 0
	}
	return signal.Linguistic{Similarity: sim, Intensity: 0.7}, nil
}

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
	vec   []float32
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	vec := f.vec
	if vec == nil {
		vec = []float32{1, 0, 0, 0}
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 7}, nil
}

var errWrongTag = errors.New("tag rejected")

type fakeIndex struct {
	mu       sync.Mutex
	added    map[string][]float32
	rebuilt  [][]index.Entry
	tagErr   error
	addErr   error
	removals []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{added: make(map[string][]float32)}
}

func (f *fakeIndex) Add(takeID string, vec []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added[takeID] = vec
	return nil
}

func (f *fakeIndex) Rebuild(entries []index.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rebuilt = append(f.rebuilt, entries)
	return nil
}

func (f *fakeIndex) VerifyTag(string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tagErr
}

func (f *fakeIndex) Remove(takeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removals = append(f.removals, takeID)
	delete(f.added, takeID)
}

// fakeRunStore is an in-memory run ledger with hash merge semantics.
type fakeRunStore struct {
	mu   sync.Mutex
	recs map[string]domrun.Record
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{recs: make(map[string]domrun.Record)}
}

func (f *fakeRunStore) Save(_ context.Context, rec domrun.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.recs[rec.RunID]
	cur.RunID = rec.RunID
	if rec.TakeID != "" {
		cur.TakeID = rec.TakeID
	}
	if rec.Status != "" {
		cur.Status = rec.Status
	}
	if !rec.QueuedAt.IsZero() {
		cur.QueuedAt = rec.QueuedAt
	}
	if !rec.StartedAt.IsZero() {
		cur.StartedAt = rec.StartedAt
	}
	if !rec.FinishedAt.IsZero() {
		cur.FinishedAt = rec.FinishedAt
	}
	if rec.Error != "" {
		cur.Error = rec.Error
	}
	f.recs[rec.RunID] = cur
	return nil
}

func (f *fakeRunStore) Get(_ context.Context, runID string) (domrun.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[runID]
	if !ok {
		return domrun.Record{}, domain.ErrRunNotFound
	}
	return rec, nil
}

type pipelineFixture struct {
	svc      *Service
	repo     *memRepo
	visual   *fakeVisual
	acoustic *fakeAcoustic
	ling     *fakeLinguistic
	embedder *fakeEmbedder
	index    *fakeIndex
	runs     *fakeRunStore
}

func newFixture(opts Options) *pipelineFixture {
	f := &pipelineFixture{
		repo:     newMemRepo(),
		visual:   &fakeVisual{},
		acoustic: &fakeAcoustic{},
		ling:     &fakeLinguistic{},
		embedder: &fakeEmbedder{},
		index:    newFakeIndex(),
		runs:     newFakeRunStore(),
	}
	if opts.ModelTag == "" {
		opts.ModelTag = "openai/text-embedding-3-small/4"
	}
	f.svc = New(f.repo, f.visual, f.acoustic, f.ling, f.embedder, f.index, f.runs, opts, zap.NewNop())
	return f
}
