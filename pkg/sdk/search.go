package smartcut

import (
	"context"
	"fmt"
	"time"
)

// SearchService resolves editor intent queries against analyzed takes.
type SearchService struct {
	svc      searchUseCase
	pipeline pipelineUseCase
	obs      *observer
}

// Query resolves an intent query. topK <= 0 uses the configured
// default; filters accepts "take_id" and "emotion" keys, unknown keys
// are ignored. An empty index yields an empty slice, not an error.
func (s *SearchService) Query(
	ctx context.Context, query string, topK int, filters map[string]string,
) (results []Result, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	hits, err := s.svc.Resolve(ctx, query, topK, filters)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		out = append(out, resultFromDomain(h))
	}
	return out, nil
}

// Suggestions returns query phrase completions for a partial input.
func (s *SearchService) Suggestions(partial string) []string {
	return s.svc.Suggestions(partial)
}

// Stats describes the current index snapshot.
func (s *SearchService) Stats() IndexStats {
	return statsFromDomain(s.svc.IndexStats())
}

// Rebuild re-embeds stored takes and swaps the index in one step.
// Returns the number of indexed entries.
func (s *SearchService) Rebuild(ctx context.Context) (entries int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index_rebuild", start, err) }()

	entries, err = s.pipeline.Rebuild(ctx)
	if err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	return entries, nil
}
