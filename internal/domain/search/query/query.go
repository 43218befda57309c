// Package query defines the validated search request.
package query

import (
	"fmt"

	"github.com/cineai/smartcut/internal/domain/emotion"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultTopK    = 10
	MaxTopK        = 100
)

// Filter keys understood by the resolver. Unknown keys are ignored with
// a logged warning, never a failure.
const (
	FilterEmotion = "emotion"
	FilterTakeID  = "take_id"
)

// Filters are hard post-filters applied before truncating to top_k.
type Filters struct {
	Emotion emotion.Label
	TakeID  string
}

// Request is a validated search query.
type Request struct {
	query   string
	topK    int
	filters Filters
	ignored []string // unknown or malformed filter keys, for warn logging
}

// New validates and normalizes search parameters. Unknown filter keys
// and invalid emotion labels are recorded in Ignored(), not rejected.
func New(q string, topK int, rawFilters map[string]string, defaultTopK, maxTopK int) (Request, error) {
	if q == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(q) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	if maxTopK <= 0 {
		maxTopK = MaxTopK
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	var filters Filters
	var ignored []string
	for key, val := range rawFilters {
		switch key {
		case FilterEmotion:
			l := emotion.Label(val)
			if emotion.IsValid(l) {
				filters.Emotion = l
			} else {
				ignored = append(ignored, key)
			}
		case FilterTakeID:
			filters.TakeID = val
		default:
			ignored = append(ignored, key)
		}
	}

	return Request{query: q, topK: topK, filters: filters, ignored: ignored}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// TopK returns the number of results to return.
func (r *Request) TopK() int { return r.topK }

// Filters returns the parsed hard filters.
func (r *Request) Filters() Filters { return r.filters }

// Ignored returns filter keys that were dropped during validation.
func (r *Request) Ignored() []string { return r.ignored }
