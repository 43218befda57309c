// Package emotion infers a take's primary emotion by weighted voting
// across the linguistic, acoustic, and visual modalities.
package emotion

import (
	"strings"

	"github.com/cineai/smartcut/internal/domain/signal"
)

// Label is a categorical emotion.
type Label string

// The emotion vocabulary.
const (
	Neutral    Label = "neutral"
	Joy        Label = "joy"
	Sadness    Label = "sadness"
	Anger      Label = "anger"
	Fear       Label = "fear"
	Disgust    Label = "disgust"
	Surprise   Label = "surprise"
	Analytical Label = "analytical"
	Thoughtful Label = "thoughtful"
)

// Vocabulary lists every valid label.
var Vocabulary = []Label{
	Neutral, Joy, Sadness, Anger, Fear,
	Disgust, Surprise, Analytical, Thoughtful,
}

// IsValid reports whether l is in the vocabulary.
func IsValid(l Label) bool {
	for _, v := range Vocabulary {
		if v == l {
			return true
		}
	}
	return false
}

// Modality contribution weights. Linguistic scores are scaled by
// linguisticWeight, with a winnerBonus for the top linguistic label;
// the acoustic and visual votes each contribute a single fixed weight.
const (
	linguisticWeight = 0.4
	winnerBonus      = 0.2
	acousticWeight   = 0.3
	visualWeight     = 0.3

	// hesitationThresholdSec is the delay before first speech that reads
	// as a deliberate, thoughtful pause.
	hesitationThresholdSec = 1.2
)

// Result is the outcome of the vote.
type Result struct {
	Label      Label
	Confidence float64 // winning weight, 0-1
}

// Infer runs the weighted vote. Same inputs always produce the same
// label: ties break by vocabulary order.
func Infer(ling signal.Linguistic, ac signal.Acoustic, vis signal.Visual, fileName string) Result {
	votes := make(map[Label]float64, len(Vocabulary))

	// Linguistic contribution: scaled scores plus a bonus for the winner.
	// Iterate the vocabulary, not the map, so ties break deterministically.
	var lingTop Label
	var lingTopScore float64
	for _, l := range Vocabulary {
		score, ok := ling.Emotions[string(l)]
		if !ok || score <= 0 {
			continue
		}
		votes[l] += score * linguisticWeight
		if score > lingTopScore {
			lingTop, lingTopScore = l, score
		}
	}
	if lingTop != "" {
		votes[lingTop] += winnerBonus
	}

	// Acoustic contribution.
	acVote := Neutral
	switch {
	case ac.LaughterDetected:
		acVote = Joy
	case ac.HesitationSec > hesitationThresholdSec:
		acVote = Thoughtful
	}
	votes[acVote] += acousticWeight

	// Visual contribution: energy/complexity table, filename hints override.
	votes[visualVote(vis, fileName)] += visualWeight

	// Neutral baseline votes do not make the take "neutral with confidence";
	// only count neutral when nothing else scored.
	best, bestScore := Neutral, 0.0
	for _, l := range Vocabulary {
		if l == Neutral {
			continue
		}
		if votes[l] > bestScore {
			best, bestScore = l, votes[l]
		}
	}
	if bestScore == 0 {
		return Result{Label: Neutral, Confidence: 0}
	}
	return Result{Label: best, Confidence: bestScore}
}

func visualVote(vis signal.Visual, fileName string) Label {
	vote := Neutral
	switch vis.Energy {
	case signal.EnergyHighIntensity:
		if vis.Complexity == signal.ComplexityIntricate {
			vote = Surprise
		} else {
			vote = Anger
		}
	case signal.EnergyDynamic:
		vote = Joy
	default:
		if vis.Complexity == signal.ComplexityIntricate {
			vote = Thoughtful
		}
	}

	// Filename hints are strong evidence about production intent.
	fname := strings.ToLower(fileName)
	hints := []struct {
		label Label
		words []string
	}{
		{Analytical, []string{"screen", "recording", "capture", "demo", "tutorial"}},
		{Joy, []string{"funny", "comedy", "laugh"}},
		{Sadness, []string{"sad", "emotional", "drama"}},
		{Anger, []string{"action", "tense", "fight"}},
		{Fear, []string{"horror", "scary", "dark"}},
	}
	for _, h := range hints {
		for _, w := range h.words {
			if strings.Contains(fname, w) {
				return h.label
			}
		}
	}
	return vote
}
