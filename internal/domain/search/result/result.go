// Package result defines the derived search result type. Results are
// regenerated per query and never persisted.
package result

import "sort"

// Match channels a result can come from.
const (
	SourceEmbedding     = "embedding"
	SourceTranscript    = "transcript"
	SourceDescription   = "description"
	SourceEmotion       = "emotion"
	SourceFileName      = "filename"
	SourceEmotionFilter = "emotion_filter"
)

// Result is one search hit.
type Result struct {
	TakeID       string   `json:"take_id"`
	FileName     string   `json:"file_name"`
	Similarity   float64  `json:"similarity"`
	Confidence   float64  `json:"confidence"`
	MatchSources []string `json:"match_sources"`
	Emotion      string   `json:"emotion,omitempty"`
	Snippet      string   `json:"snippet,omitempty"`
}

// AddSource records a contributing channel, keeping the list unique.
func (r *Result) AddSource(source string) {
	for _, s := range r.MatchSources {
		if s == source {
			return
		}
	}
	r.MatchSources = append(r.MatchSources, source)
}

// HasSource reports whether the channel contributed to this result.
func (r *Result) HasSource(source string) bool {
	for _, s := range r.MatchSources {
		if s == source {
			return true
		}
	}
	return false
}

// Sort orders results by confidence descending, breaking ties by
// similarity then take ID so rankings are stable across runs.
func Sort(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].TakeID < results[j].TakeID
	})
}
