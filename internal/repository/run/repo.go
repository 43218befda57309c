// Package run persists analysis run records as hashes in the KV store.
// Each status transition writes only the fields that changed; the hash
// merge keeps the rest of the record intact.
package run

import (
	"context"
	"fmt"
	"time"

	"github.com/cineai/smartcut/internal/domain"
	domrun "github.com/cineai/smartcut/internal/domain/run"
)

// store is the consumer interface for run persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/pipeline.RunStore.
type Repo struct {
	store store
}

// New creates a run repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save merges the record's non-zero fields into the stored hash.
func (r *Repo) Save(ctx context.Context, rec domrun.Record) error {
	fields := make(map[string]string, 6)
	if rec.TakeID != "" {
		fields["take_id"] = rec.TakeID
	}
	if rec.Status != "" {
		fields["status"] = rec.Status
	}
	if !rec.QueuedAt.IsZero() {
		fields["queued_at"] = rec.QueuedAt.Format(time.RFC3339Nano)
	}
	if !rec.StartedAt.IsZero() {
		fields["started_at"] = rec.StartedAt.Format(time.RFC3339Nano)
	}
	if !rec.FinishedAt.IsZero() {
		fields["finished_at"] = rec.FinishedAt.Format(time.RFC3339Nano)
	}
	if rec.Error != "" {
		fields["error"] = rec.Error
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.store.HSet(ctx, runKey(rec.RunID), fields); err != nil {
		return fmt.Errorf("hset %s: %w", runKey(rec.RunID), err)
	}
	return nil
}

// Get returns a run record by ID.
func (r *Repo) Get(ctx context.Context, runID string) (domrun.Record, error) {
	fields, err := r.store.HGetAll(ctx, runKey(runID))
	if err != nil {
		return domrun.Record{}, fmt.Errorf("hgetall %s: %w", runKey(runID), err)
	}
	if len(fields) == 0 {
		return domrun.Record{}, fmt.Errorf("run %s: %w", runID, domain.ErrRunNotFound)
	}

	rec := domrun.Record{
		RunID:  runID,
		TakeID: fields["take_id"],
		Status: fields["status"],
		Error:  fields["error"],
	}
	rec.QueuedAt = parseTime(fields["queued_at"])
	rec.StartedAt = parseTime(fields["started_at"])
	rec.FinishedAt = parseTime(fields["finished_at"])
	return rec, nil
}

// parseTime tolerates missing or malformed timestamps; a zero time is
// better than failing the whole read over one field.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func runKey(id string) string {
	return domain.KeyPrefix + "run:" + id
}
