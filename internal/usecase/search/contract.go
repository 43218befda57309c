package search

import (
	"context"

	"github.com/cineai/smartcut/internal/domain"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
)

// Repository reads persisted takes for the keyword channel and for
// hydrating vector hits with their metadata.
type Repository interface {
	Get(ctx context.Context, id string) (domtake.Take, error)
	List(ctx context.Context) ([]domtake.Take, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index answers nearest-neighbor queries over indexed takes.
type Index interface {
	Search(vec []float32, k int) ([]index.Hit, uint64, error)
	ModelTag() string
	Stats() index.Stats
}
