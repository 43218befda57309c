package take

import (
	"context"

	domtake "github.com/cineai/smartcut/internal/domain/take"
)

// Repository defines the storage contract for takes.
type Repository interface {
	Create(ctx context.Context, t *domtake.Take) error
	Get(ctx context.Context, id string) (domtake.Take, error)
	List(ctx context.Context) ([]domtake.Take, error)
	Delete(ctx context.Context, id string) error
}

// Indexer drops vectors for deleted takes.
type Indexer interface {
	Remove(takeID string)
}
