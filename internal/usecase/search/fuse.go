package search

import (
	"strings"

	"github.com/cineai/smartcut/internal/domain/emotion"
	"github.com/cineai/smartcut/internal/domain/search/result"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
)

// Per-term hit weights for the keyword channel. Dialogue matches count
// the most, a filename hit the least.
const (
	transcriptWeight  = 6
	emotionWeight     = 5
	descriptionWeight = 4
	fileNameWeight    = 3

	// emotionCategoryBonus rewards takes whose inferred emotion belongs
	// to an emotion category the query itself evokes.
	emotionCategoryBonus = 8
)

// Keyword scores live on the same [0,1] scale as vector similarity so
// the two channels can be fused by max.
const (
	keywordBase       = 0.4
	keywordPerHit     = 0.04
	keywordCeiling    = 0.98
	bothChannelBonus  = 0.10
	confidenceCeiling = 0.99
)

const snippetLen = 50

// keywordScore maps weighted term hits onto a confidence value.
func keywordScore(hits int) float64 {
	s := keywordBase + keywordPerHit*float64(hits)
	if s > keywordCeiling {
		return keywordCeiling
	}
	return s
}

// fuse merges the vector hits with a keyword pass over all stored
// takes. A take found by both channels gets the better of the two
// scores plus a fixed agreement bonus.
func fuse(hits []index.Hit, takes []domtake.Take, terms []string, queryEmotions []emotion.Label) []result.Result {
	byID := make(map[string]*domtake.Take, len(takes))
	for i := range takes {
		byID[takes[i].ID] = &takes[i]
	}

	merged := make(map[string]*result.Result, len(hits))
	order := make([]string, 0, len(hits))

	for _, h := range hits {
		t, ok := byID[h.TakeID]
		if !ok {
			// Deleted between indexing and this query.
			continue
		}
		r := &result.Result{
			TakeID:     t.ID,
			FileName:   t.FileName,
			Similarity: h.Similarity,
			Confidence: h.Similarity,
			Emotion:    string(t.Emotion),
			Snippet:    snippet(t),
		}
		r.AddSource(result.SourceEmbedding)
		merged[t.ID] = r
		order = append(order, t.ID)
	}

	for i := range takes {
		t := &takes[i]
		hits, sources := matchKeywords(t, terms, queryEmotions)
		if hits == 0 {
			continue
		}
		kw := keywordScore(hits)

		r, ok := merged[t.ID]
		if !ok {
			r = &result.Result{
				TakeID:     t.ID,
				FileName:   t.FileName,
				Confidence: kw,
				Emotion:    string(t.Emotion),
				Snippet:    snippet(t),
			}
			merged[t.ID] = r
			order = append(order, t.ID)
		} else {
			// Both channels agree on this take.
			combined := r.Similarity
			if kw > combined {
				combined = kw
			}
			combined += bothChannelBonus
			if combined > confidenceCeiling {
				combined = confidenceCeiling
			}
			r.Confidence = combined
		}
		for _, src := range sources {
			r.AddSource(src)
		}
	}

	out := make([]result.Result, 0, len(order))
	for _, id := range order {
		out = append(out, *merged[id])
	}
	return out
}

// matchKeywords counts weighted term hits for one take and reports
// which channels contributed.
func matchKeywords(t *domtake.Take, terms []string, queryEmotions []emotion.Label) (int, []string) {
	var transcript string
	if t.Acoustic != nil {
		transcript = strings.ToLower(t.Acoustic.Transcript)
	}
	description := strings.ToLower(t.Description)
	emo := strings.ToLower(string(t.Emotion))
	fileName := strings.ToLower(t.FileName)

	var hits int
	var sources []string
	addSource := func(src string) {
		for _, s := range sources {
			if s == src {
				return
			}
		}
		sources = append(sources, src)
	}

	for _, term := range terms {
		if transcript != "" && strings.Contains(transcript, term) {
			hits += transcriptWeight
			addSource(result.SourceTranscript)
		}
		if emo != "" && strings.Contains(emo, term) {
			hits += emotionWeight
			addSource(result.SourceEmotion)
		}
		if description != "" && strings.Contains(description, term) {
			hits += descriptionWeight
			addSource(result.SourceDescription)
		}
		if strings.Contains(fileName, term) {
			hits += fileNameWeight
			addSource(result.SourceFileName)
		}
	}

	for _, qe := range queryEmotions {
		if t.Emotion == qe {
			hits += emotionCategoryBonus
			addSource(result.SourceEmotion)
			break
		}
	}

	return hits, sources
}

// snippet returns the leading slice of the transcript for display.
func snippet(t *domtake.Take) string {
	if t.Acoustic == nil {
		return ""
	}
	s := strings.TrimSpace(t.Acoustic.Transcript)
	if len(s) > snippetLen {
		return s[:snippetLen] + "..."
	}
	return s
}
