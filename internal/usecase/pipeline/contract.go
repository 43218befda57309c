package pipeline

import (
	"context"

	"github.com/cineai/smartcut/internal/domain"
	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/signal"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
)

// Repository defines the storage contract for takes.
type Repository interface {
	Get(ctx context.Context, id string) (domtake.Take, error)
	Save(ctx context.Context, t *domtake.Take) error
	List(ctx context.Context) ([]domtake.Take, error)
}

// VisualExtractor produces visual signals for a take.
type VisualExtractor interface {
	ExtractVisual(ctx context.Context, filePath string) (signal.Visual, error)
}

// AcousticExtractor produces transcription and audio-quality signals.
type AcousticExtractor interface {
	ExtractAcoustic(ctx context.Context, filePath string) (signal.Acoustic, error)
}

// LinguisticExtractor aligns a transcript against the reference script.
type LinguisticExtractor interface {
	ExtractLinguistic(ctx context.Context, transcript, script, fileName string) (signal.Linguistic, error)
}

// Embedder vectorizes descriptive text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// RunStore persists run ledger entries. Save merges non-zero fields
// into the stored entry, so status transitions write only what changed.
type RunStore interface {
	Save(ctx context.Context, rec domrun.Record) error
	Get(ctx context.Context, runID string) (domrun.Record, error)
}

// Indexer receives finished embeddings. The pipeline only inserts
// vectors whose model tag matches the index.
type Indexer interface {
	Add(takeID string, vec []float32) error
	Rebuild(entries []index.Entry) error
	VerifyTag(tag string) error
	Remove(takeID string)
}
