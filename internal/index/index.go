// Package index implements an in-memory flat nearest-neighbor index
// over take embeddings. Reads go through an atomic snapshot pointer so
// a query never observes a half-applied rebuild; writes copy the
// snapshot under a mutex and swap it in whole.
package index

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cineai/smartcut/internal/domain"
)

// Entry is one (take, vector) pair to insert or rebuild from.
type Entry struct {
	TakeID string
	Vector []float32
}

// Hit is one nearest-neighbor match. Similarity is cosine mapped to
// [0,1] via (1+cos)/2.
type Hit struct {
	TakeID     string
	Similarity float64
}

// Stats describes the current snapshot.
type Stats struct {
	Size       int    `json:"size"`
	Generation uint64 `json:"generation"`
	Dimensions int    `json:"dimensions"`
	ModelTag   string `json:"model_tag"`
}

// snapshot is an immutable view of the index. ids and vectors are
// parallel slices; vectors are unit-normalized at insert time.
type snapshot struct {
	generation uint64
	ids        []string
	vectors    [][]float32
	byID       map[string]int
}

// Flat is a brute-force cosine index with atomic swap semantics.
type Flat struct {
	modelTag string
	dims     int

	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[snapshot]
}

// New creates an empty index bound to one embedding model tag and
// dimensionality. Vectors from any other model are rejected.
func New(modelTag string, dims int) *Flat {
	f := &Flat{modelTag: modelTag, dims: dims}
	f.snap.Store(&snapshot{byID: map[string]int{}})
	return f
}

// ModelTag returns the embedding model tag the index is bound to.
func (f *Flat) ModelTag() string { return f.modelTag }

// VerifyTag rejects vectors produced by a different embedding model.
func (f *Flat) VerifyTag(tag string) error {
	if tag != f.modelTag {
		return fmt.Errorf("index bound to %q, got %q: %w", f.modelTag, tag, domain.ErrModelTagMismatch)
	}
	return nil
}

func (f *Flat) checkDims(vec []float32) error {
	if len(vec) != f.dims {
		return fmt.Errorf("want %d dims, got %d: %w", f.dims, len(vec), domain.ErrVectorDimMismatch)
	}
	return nil
}

// Add inserts or replaces one entry. The swap is atomic: concurrent
// readers see either the old snapshot or the new one.
func (f *Flat) Add(takeID string, vec []float32) error {
	if err := f.checkDims(vec); err != nil {
		return err
	}
	unit := normalize(vec)

	f.mu.Lock()
	defer f.mu.Unlock()

	old := f.snap.Load()
	next := old.clone()
	if i, ok := next.byID[takeID]; ok {
		next.vectors[i] = unit
	} else {
		next.byID[takeID] = len(next.ids)
		next.ids = append(next.ids, takeID)
		next.vectors = append(next.vectors, unit)
	}
	next.generation = old.generation + 1
	f.snap.Store(next)
	return nil
}

// Remove drops one entry if present.
func (f *Flat) Remove(takeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	old := f.snap.Load()
	i, ok := old.byID[takeID]
	if !ok {
		return
	}
	next := &snapshot{
		generation: old.generation + 1,
		ids:        make([]string, 0, len(old.ids)-1),
		vectors:    make([][]float32, 0, len(old.vectors)-1),
		byID:       make(map[string]int, len(old.byID)-1),
	}
	for j := range old.ids {
		if j == i {
			continue
		}
		next.byID[old.ids[j]] = len(next.ids)
		next.ids = append(next.ids, old.ids[j])
		next.vectors = append(next.vectors, old.vectors[j])
	}
	f.snap.Store(next)
}

// Rebuild replaces the whole index in one swap. Queries in flight keep
// reading the previous snapshot until they finish.
func (f *Flat) Rebuild(entries []Entry) error {
	for _, e := range entries {
		if err := f.checkDims(e.Vector); err != nil {
			return fmt.Errorf("take %s: %w", e.TakeID, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	old := f.snap.Load()
	next := &snapshot{
		generation: old.generation + 1,
		ids:        make([]string, 0, len(entries)),
		vectors:    make([][]float32, 0, len(entries)),
		byID:       make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := next.byID[e.TakeID]; dup {
			continue
		}
		next.byID[e.TakeID] = len(next.ids)
		next.ids = append(next.ids, e.TakeID)
		next.vectors = append(next.vectors, normalize(e.Vector))
	}
	f.snap.Store(next)
	return nil
}

// Search returns the top k nearest entries by cosine similarity and the
// generation of the snapshot the answer came from.
func (f *Flat) Search(vec []float32, k int) ([]Hit, uint64, error) {
	if err := f.checkDims(vec); err != nil {
		return nil, 0, err
	}
	snap := f.snap.Load()
	if len(snap.ids) == 0 {
		return nil, snap.generation, domain.ErrIndexEmpty
	}
	if k <= 0 {
		k = 1
	}

	unit := normalize(vec)
	hits := make([]Hit, len(snap.ids))
	for i, v := range snap.vectors {
		hits[i] = Hit{TakeID: snap.ids[i], Similarity: similarity(unit, v)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].TakeID < hits[j].TakeID
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, snap.generation, nil
}

// Stats reports the current snapshot without blocking writers.
func (f *Flat) Stats() Stats {
	snap := f.snap.Load()
	return Stats{
		Size:       len(snap.ids),
		Generation: snap.generation,
		Dimensions: f.dims,
		ModelTag:   f.modelTag,
	}
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		generation: s.generation,
		ids:        append([]string(nil), s.ids...),
		vectors:    append([][]float32(nil), s.vectors...),
		byID:       make(map[string]int, len(s.byID)+1),
	}
	for id, i := range s.byID {
		next.byID[id] = i
	}
	return next
}

// normalize returns a unit-length copy. A zero vector stays zero, so
// its dot product with anything is 0 and it sits at the 0.5 midpoint.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(vec))
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range vec {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// similarity maps the dot product of two unit vectors into [0,1].
func similarity(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return (1 + dot) / 2
}
