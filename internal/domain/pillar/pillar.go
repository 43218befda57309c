// Package pillar defines the seven-pillar score set and its composite weights.
package pillar

import "fmt"

// Name identifies one of the seven pillars.
type Name string

// The seven pillars, in composite-weight order.
const (
	Performance     Name = "performance"
	StoryClarity    Name = "story_clarity"
	Coverage        Name = "coverage"
	Technical       Name = "technical"
	ToneRhythm      Name = "tone_rhythm"
	EditImagination Name = "edit_imagination"
	Instinct        Name = "instinct"
)

// All lists the pillars in canonical order.
var All = []Name{
	Performance, StoryClarity, Coverage, Technical,
	ToneRhythm, EditImagination, Instinct,
}

// Weights are the fixed composite weights. They sum to 1.0.
var Weights = map[Name]float64{
	Performance:     0.25,
	StoryClarity:    0.20,
	Coverage:        0.15,
	Technical:       0.15,
	ToneRhythm:      0.10,
	EditImagination: 0.10,
	Instinct:        0.05,
}

// Set holds all seven pillar scores, each in [0,100].
type Set struct {
	Performance     float64 `json:"performance"`
	StoryClarity    float64 `json:"story_clarity"`
	Coverage        float64 `json:"coverage"`
	Technical       float64 `json:"technical"`
	ToneRhythm      float64 `json:"tone_rhythm"`
	EditImagination float64 `json:"edit_imagination"`
	Instinct        float64 `json:"instinct"`
}

// Get returns the score for a pillar name.
func (s Set) Get(n Name) float64 {
	switch n {
	case Performance:
		return s.Performance
	case StoryClarity:
		return s.StoryClarity
	case Coverage:
		return s.Coverage
	case Technical:
		return s.Technical
	case ToneRhythm:
		return s.ToneRhythm
	case EditImagination:
		return s.EditImagination
	case Instinct:
		return s.Instinct
	default:
		return 0
	}
}

// Composite returns the fixed-weight linear combination of the set.
func (s Set) Composite() float64 {
	var total float64
	for _, n := range All {
		total += Weights[n] * s.Get(n)
	}
	return total
}

// Validate checks every pillar score is within [0,100].
func (s Set) Validate() error {
	for _, n := range All {
		v := s.Get(n)
		if v < 0 || v > 100 {
			return fmt.Errorf("pillar %s out of range: %g", n, v)
		}
	}
	return nil
}

// Clamp bounds a score to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
