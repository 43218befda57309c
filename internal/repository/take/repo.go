// Package take persists takes as JSON payloads in the KV store.
package take

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cineai/smartcut/internal/db"
	"github.com/cineai/smartcut/internal/domain"
	domtake "github.com/cineai/smartcut/internal/domain/take"
)

// store is the consumer interface for take persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements take persistence over the KV store.
type Repo struct {
	store store
}

// New creates a take repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new take, failing when the ID is already registered.
func (r *Repo) Create(ctx context.Context, t *domtake.Take) error {
	key := takeKey(t.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if exists {
		return fmt.Errorf("take %s: %w", t.ID, domain.ErrTakeExists)
	}
	return r.Save(ctx, t)
}

// Save stores or replaces a take.
func (r *Repo) Save(ctx context.Context, t *domtake.Take) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal take %s: %w", t.ID, err)
	}
	if err := r.store.Set(ctx, takeKey(t.ID), data); err != nil {
		return fmt.Errorf("set %s: %w", takeKey(t.ID), err)
	}
	return nil
}

// Get returns a take by ID.
func (r *Repo) Get(ctx context.Context, id string) (domtake.Take, error) {
	raw, err := r.store.Get(ctx, takeKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domtake.Take{}, fmt.Errorf("take %s: %w", id, domain.ErrTakeNotFound)
		}
		return domtake.Take{}, fmt.Errorf("get %s: %w", takeKey(id), err)
	}
	var t domtake.Take
	if err := json.Unmarshal(raw, &t); err != nil {
		return domtake.Take{}, fmt.Errorf("unmarshal take %s: %w", id, err)
	}
	return t, nil
}

// List returns every stored take. Entries that fail to decode are
// skipped rather than failing the whole listing.
func (r *Repo) List(ctx context.Context) ([]domtake.Take, error) {
	keys, err := r.store.Scan(ctx, takeKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan takes: %w", err)
	}

	takes := make([]domtake.Take, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var t domtake.Take
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		if t.ID == "" {
			t.ID = strings.TrimPrefix(key, takeKey(""))
		}
		takes = append(takes, t)
	}
	return takes, nil
}

// Delete removes a take.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := takeKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("take %s: %w", id, domain.ErrTakeNotFound)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func takeKey(id string) string {
	return domain.KeyPrefix + "take:" + id
}
