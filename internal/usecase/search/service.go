// Package search resolves editor intent queries against the take
// index. Resolution runs two channels, a vector pass over the flat
// index and a keyword pass over stored takes, and fuses their scores.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/domain/search/expansion"
	"github.com/cineai/smartcut/internal/domain/search/query"
	"github.com/cineai/smartcut/internal/domain/search/result"
	"github.com/cineai/smartcut/internal/index"
)

// overfetchFactor widens the vector pass so hard post-filters do not
// starve the final page.
const overfetchFactor = 3

const maxSuggestions = 5

// phrasebook backs the autocomplete endpoint with editorial intent
// phrases. Static on purpose: suggestions must work on an empty index.
var phrasebook = []string{
	"hesitant reaction before answering",
	"tense pause before dialogue",
	"awkward silence after confession",
	"relieved smile after conflict",
	"angry interruption mid-sentence",
	"thoughtful pause while listening",
	"surprised reaction to news",
	"nervous laughter",
	"confident delivery",
	"emotional breakdown",
	"subtle facial reaction",
	"dramatic silence",
}

// Options bounds the result page size.
type Options struct {
	DefaultTopK int
	MaxTopK     int
}

// Service handles intent search over analyzed takes.
type Service struct {
	repo        Repository
	embed       Embedder
	index       Index
	defaultTopK int
	maxTopK     int
	logger      *zap.Logger
}

// New creates a search service.
func New(repo Repository, embed Embedder, idx Index, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = query.DefaultTopK
	}
	if opts.MaxTopK <= 0 {
		opts.MaxTopK = query.MaxTopK
	}
	return &Service{
		repo:        repo,
		embed:       embed,
		index:       idx,
		defaultTopK: opts.DefaultTopK,
		maxTopK:     opts.MaxTopK,
		logger:      logger,
	}
}

// Resolve executes an intent query: validate, expand, embed, retrieve,
// fuse, post-filter, rank. An empty index yields empty results rather
// than an error.
func (s *Service) Resolve(
	ctx context.Context, q string, topK int, rawFilters map[string]string,
) ([]result.Result, error) {
	req, err := query.New(q, topK, rawFilters, s.defaultTopK, s.maxTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	for _, key := range req.Ignored() {
		s.logger.Warn("Ignoring unsupported search filter", zap.String("key", key))
	}

	if t, ok := s.embed.(domain.Tagger); ok && t.ModelTag() != s.index.ModelTag() {
		return nil, fmt.Errorf("query embedder %q against index %q: %w",
			t.ModelTag(), s.index.ModelTag(), domain.ErrModelTagMismatch)
	}

	exp := expansion.Expand(req.Query())
	queryEmotions := expansion.EmotionMatches(req.Query())

	emb, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, gen, err := s.index.Search(emb.Embedding, req.TopK()*overfetchFactor)
	if err != nil {
		if errors.Is(err, domain.ErrIndexEmpty) {
			return []result.Result{}, nil
		}
		return nil, fmt.Errorf("search index: %w", err)
	}

	takes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list takes: %w", err)
	}

	results := fuse(hits, takes, exp.Terms, queryEmotions)
	results = applyFilters(results, req.Filters())
	result.Sort(results)
	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}

	s.logger.Debug("Intent query resolved",
		zap.String("query", req.Query()),
		zap.Int("expanded_terms", len(exp.Terms)),
		zap.Int("results", len(results)),
		zap.Uint64("index_generation", gen),
	)
	return results, nil
}

// Suggestions returns phrasebook entries containing the partial query,
// case-insensitively. An empty partial returns the leading entries.
func (s *Service) Suggestions(partial string) []string {
	p := strings.ToLower(strings.TrimSpace(partial))
	out := make([]string, 0, maxSuggestions)
	for _, phrase := range phrasebook {
		if p == "" || strings.Contains(phrase, p) {
			out = append(out, phrase)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// IndexStats exposes the current index snapshot statistics.
func (s *Service) IndexStats() index.Stats {
	return s.index.Stats()
}

// applyFilters drops results failing the hard filters. A result kept
// by an explicit emotion filter records that channel.
func applyFilters(results []result.Result, f query.Filters) []result.Result {
	if f.TakeID == "" && f.Emotion == "" {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		if f.TakeID != "" && r.TakeID != f.TakeID {
			continue
		}
		if f.Emotion != "" {
			if r.Emotion != string(f.Emotion) {
				continue
			}
			r.AddSource(result.SourceEmotionFilter)
		}
		kept = append(kept, r)
	}
	return kept
}
