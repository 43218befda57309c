// Package scoring computes the seven-pillar score set and the composite
// confidence for a take. Scoring is pure: the same signals always yield
// the same scores, and a missing modality degrades to documented neutral
// inputs instead of failing.
package scoring

import (
	"fmt"
	"sort"

	"github.com/cineai/smartcut/internal/domain/pillar"
	"github.com/cineai/smartcut/internal/domain/signal"
)

// Reasoning thresholds. Pillars below Low get a critique note, pillars
// at or above High get a praise note.
const (
	LowThreshold  = 70.0
	HighThreshold = 85.0
)

// Pacing baseline and penalty slope for tone_rhythm.
const (
	pacingBaselineWPS = 2.5
	pacingPenalty     = 25.0
)

// Inputs carries the per-modality signals. A nil modality means its
// extraction failed and neutral defaults apply.
type Inputs struct {
	Visual     *signal.Visual
	Acoustic   *signal.Acoustic
	Linguistic *signal.Linguistic
}

// Outcome is the scored result for one take.
type Outcome struct {
	Pillars    pillar.Set
	Confidence float64
	Reasoning  []string
	Degraded   bool
}

// critiques are the per-pillar notes, one pair per pillar.
var critiques = map[pillar.Name]struct{ low, high string }{
	pillar.Performance: {
		low:  "Performance feels forced or flat; the actors may be missing the subtext or timing.",
		high: "Emotional beats read clearly; the performance feels truthful.",
	},
	pillar.StoryClarity: {
		low:  "Story intent is muddied; a first-time viewer might find the scene confusing.",
		high: "Key story points are visually clear and obvious.",
	},
	pillar.Coverage: {
		low:  "Possible coverage gaps; eyelines or blocking may limit editing options.",
		high: "Strong coverage with clear eyeline matches.",
	},
	pillar.Technical: {
		low:  "Technical failures in focus, lighting, or acoustic clarity.",
		high: "Technical quality is broadcast-ready.",
	},
	pillar.ToneRhythm: {
		low:  "Tone feels off; the rhythm drags or rushes the emotional beat.",
		high: "Pacing and tone are consistent with the narrative arc.",
	},
	pillar.EditImagination: {
		low:  "Limited options; the editor will struggle to shape this in post.",
		high: "The editor has multiple options to shape the performance.",
	},
	pillar.Instinct: {
		low:  "Something feels off instinctively; the scene doesn't quite land.",
		high: "The scene lands. It has the right feeling.",
	},
}

const degradedNote = "One or more analysis modalities were unavailable; neutral defaults were applied."

// Score derives the pillar set, composite confidence, and reasoning for
// one take.
func Score(in Inputs) Outcome {
	degraded := in.Visual == nil || in.Acoustic == nil || in.Linguistic == nil

	visualEnergy := signal.NeutralScore
	visualTech := signal.NeutralScore
	objects := 0
	if in.Visual != nil {
		visualEnergy = signal.EnergyScore(in.Visual.Energy)
		visualTech = in.Visual.TechnicalScore
		objects = len(in.Visual.Objects)
	}

	acousticQuality := signal.NeutralScore
	wps := 0.0
	if in.Acoustic != nil {
		acousticQuality = in.Acoustic.QualityScore
		wps = in.Acoustic.WordsPerSec
	}

	alignment := signal.NeutralScore
	if in.Linguistic != nil {
		alignment = in.Linguistic.Similarity * 100
	}

	// Spoken intensity is derived from the transcript, so it is only
	// meaningful when the acoustic stage actually produced one.
	acousticIntensity := signal.NeutralScore
	if in.Acoustic != nil && in.Linguistic != nil {
		acousticIntensity = in.Linguistic.Intensity * 100
	}

	var set pillar.Set
	set.Performance = pillar.Clamp(0.4*visualEnergy + 0.4*acousticIntensity + agreementBonus(visualEnergy, acousticIntensity))

	clarityBonus := 10.0
	if objects > 3 {
		clarityBonus = 30
	}
	set.StoryClarity = pillar.Clamp(0.7*alignment + clarityBonus)

	set.Coverage = pillar.Clamp(0.5*visualTech + 8*float64(objects))
	set.Technical = pillar.Clamp(0.6*visualTech + 0.4*acousticQuality)
	set.ToneRhythm = pillar.Clamp(0.7*pacingScore(wps) + 0.3*visualTech)
	set.EditImagination = pillar.Clamp(0.6*set.Coverage + 0.4*set.Technical)

	// Instinct is the mean of the other six. The circularity (the mean
	// is itself re-weighted into the composite) is intentional: a gut
	// feeling baseline, not a bug.
	set.Instinct = (set.Performance + set.StoryClarity + set.Coverage +
		set.Technical + set.ToneRhythm + set.EditImagination) / 6

	return Outcome{
		Pillars:    set,
		Confidence: set.Composite(),
		Reasoning:  reasoning(set, degraded),
		Degraded:   degraded,
	}
}

// agreementBonus rewards takes where visual energy and spoken intensity
// tell the same story, in either direction.
func agreementBonus(visualEnergy, acousticIntensity float64) float64 {
	bothHigh := visualEnergy >= 70 && acousticIntensity >= 70
	bothLow := visualEnergy <= 30 && acousticIntensity <= 30
	if bothHigh || bothLow {
		return 20
	}
	return 10
}

// pacingScore penalizes deviation from the baseline speech rate
// symmetrically. An unknown rate scores neutral.
func pacingScore(wps float64) float64 {
	if wps <= 0 {
		return signal.NeutralScore
	}
	dev := wps - pacingBaselineWPS
	if dev < 0 {
		dev = -dev
	}
	score := 100 - pacingPenalty*dev
	if score < 0 {
		return 0
	}
	return score
}

// reasoning emits one note per triggering pillar, worst first, plus a
// degradation note when any modality fell back to defaults.
func reasoning(set pillar.Set, degraded bool) []string {
	type entry struct {
		name  pillar.Name
		score float64
	}
	var low, high []entry
	for _, n := range pillar.All {
		v := set.Get(n)
		switch {
		case v < LowThreshold:
			low = append(low, entry{n, v})
		case v >= HighThreshold:
			high = append(high, entry{n, v})
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].score < low[j].score })
	sort.SliceStable(high, func(i, j int) bool { return high[i].score < high[j].score })

	var notes []string
	for _, e := range low {
		notes = append(notes, fmt.Sprintf("%s (%.1f): %s", e.name, e.score, critiques[e.name].low))
	}
	for _, e := range high {
		notes = append(notes, fmt.Sprintf("%s (%.1f): %s", e.name, e.score, critiques[e.name].high))
	}
	if degraded {
		notes = append(notes, degradedNote)
	}
	return notes
}
