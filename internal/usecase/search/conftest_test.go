package search

import (
	"context"
	"sync"

	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/domain/emotion"
	"github.com/cineai/smartcut/internal/domain/signal"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
	"go.uber.org/zap"
)

const testTag = "openai/text-embedding-3-small/4"

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

func (r *memRepo) List(_ context.Context) ([]domtake.Take, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domtake.Take, 0, len(r.takes))
	for _, t := range r.takes {
		out = append(out, t)
	}
	return out, nil
}

func (r *memRepo) put(t domtake.Take) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.takes[t.ID] = t
}

// fakeEmbedder returns a fixed vector regardless of input text.
type fakeEmbedder struct {
	tag string
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: f.vec, TotalTokens: 3}, nil
}

func (f *fakeEmbedder) ModelTag() string { return f.tag }

type searchFixture struct {
	svc   *Service
	repo  *memRepo
	embed *fakeEmbedder
	index *index.Flat
}

func newFixture() *searchFixture {
	f := &searchFixture{
		repo:  newMemRepo(),
		embed: &fakeEmbedder{tag: testTag, vec: []float32{0, 1, 0, 0}},
		index: index.New(testTag, 4),
	}
	f.svc = New(f.repo, f.embed, f.index, Options{}, zap.NewNop())
	return f
}

// addTake stores an analyzed take and optionally indexes its vector.
func (f *searchFixture) addTake(id, fileName, transcript string, emo emotion.Label, vec []float32) {
	t := domtake.New(id, fileName, "/takes/"+fileName, "")
	t.Acoustic = &signal.Acoustic{Transcript: transcript}
	t.Emotion = emo
	t.Description = "Take " + fileName + ". Dialogue: " + transcript
	if vec != nil {
		t.Embedding = vec
		t.ModelTag = testTag
		if err := f.index.Add(id, vec); err != nil {
			panic(err)
		}
	}
	f.repo.put(*t)
}
