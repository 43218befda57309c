package chi

import (
	"context"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/domain/signal"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
	runrepo "github.com/cineai/smartcut/internal/repository/run"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
	pipelineuc "github.com/cineai/smartcut/internal/usecase/pipeline"
	searchuc "github.com/cineai/smartcut/internal/usecase/search"
	takeuc "github.com/cineai/smartcut/internal/usecase/take"
)

const testTag = "openai/text-embedding-3-small/4"

type memRepo struct {
	mu    sync.Mutex
	takes map[string]domtake.Take
}

func newMemRepo() *memRepo {
	return &memRepo{takes: make(map[string]domtake.Take)}
}

func (r *memRepo) Create(_ context.Context, t *domtake.Take) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.takes[t.ID]; ok {
		return domain.ErrTakeExists
	}
	r.takes[t.ID] = *t
	return nil
}

func (r *memRepo) Save(_ context.Context, t *domtake.Take) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takes[t.ID] = *t
	return nil
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

func (r *memRepo) List(_ context.Context) ([]domtake.Take, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domtake.Take, 0, len(r.takes))
	for _, t := range r.takes {
		out = append(out, t)
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.takes[id]; !ok {
		return domain.ErrTakeNotFound
	}
	delete(r.takes, id)
	return nil
}

type fakeVisual struct{}

func (fakeVisual) ExtractVisual(context.Context, string) (signal.Visual, error) {
	return signal.Visual{Energy: signal.EnergyDynamic, Complexity: signal.ComplexityModerate, TechnicalScore: 80}, nil
}

type fakeAcoustic struct{}

func (fakeAcoustic) ExtractAcoustic(context.Context, string) (signal.Acoustic, error) {
	return signal.Acoustic{Transcript: "a line of dialogue", QualityScore: 75, WordsPerSec: 2.5}, nil
}

type fakeLinguistic struct{}

func (fakeLinguistic) ExtractLinguistic(context.Context, string, string, string) (signal.Linguistic, error) {
	return signal.Linguistic{Similarity: 0.9, Intensity: 0.6}, nil
}

type fakeEmbedder struct {
	tag string
	err error
}

func (f *fakeEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0, 1, 0, 0}}, nil
}

func (f *fakeEmbedder) ModelTag() string { return f.tag }

// memHashStore backs the run ledger repository in tests.
type memHashStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func newMemHashStore() *memHashStore {
	return &memHashStore{data: map[string]map[string]string{}}
}

func (m *memHashStore) HSet(_ context.Context, key string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.data[key]
	if !ok {
		h = map[string]string{}
		m.data[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.data[key] {
		out[k] = v
	}
	return out, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

type serverFixture struct {
	srv      *httptest.Server
	repo     *memRepo
	embedder *fakeEmbedder
	index    *index.Flat
	pipeline *pipelineuc.Service
}

// newServerFixture assembles the full handler stack over in-memory
// fakes. Pipeline workers are not started; queued jobs stay queued so
// tests stay deterministic.
func newServerFixture(queueSize int) *serverFixture {
	f := &serverFixture{
		repo:     newMemRepo(),
		embedder: &fakeEmbedder{tag: testTag},
		index:    index.New(testTag, 4),
	}

	logger := zap.NewNop()
	f.pipeline = pipelineuc.New(
		f.repo, fakeVisual{}, fakeAcoustic{}, fakeLinguistic{},
		f.embedder, f.index,
		runrepo.New(newMemHashStore()),
		pipelineuc.Options{QueueSize: queueSize, ModelTag: testTag},
		logger,
	)
	takes := takeuc.New(f.repo, f.index)
	search := searchuc.New(f.repo, f.embedder, f.index, searchuc.Options{}, logger)
	health := healthuc.New(&fakePinger{}, nil, f.pipeline)

	server := NewServer(takes, f.pipeline, search, health, logger)
	r := chi.NewRouter()
	server.Mount(r)
	f.srv = httptest.NewServer(r)
	return f
}

func (f *serverFixture) close() {
	f.srv.Close()
}
