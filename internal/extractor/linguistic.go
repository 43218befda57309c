package extractor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cineai/smartcut/internal/domain/emotion"
	"github.com/cineai/smartcut/internal/domain/signal"
)

// emotionTranscriptKeywords scores transcript vocabulary per emotion.
// Entries include Hindi and Tamil transliterations present in the
// production footage library.
var emotionTranscriptKeywords = map[emotion.Label][]string{
	emotion.Joy:        {"happy", "wonderful", "great", "excellent", "love", "excited", "amazing", "perfect", "laugh", "funny", "smile", "celebrate", "brilliant", "fantastic", "khush", "mazaa", "badhiya", "magizhchi", "haha"},
	emotion.Sadness:    {"sad", "terrible", "unhappy", "cry", "regret", "lost", "broken", "sorrow", "alone", "tear", "grief", "dukh", "dard", "rona", "udaas", "painful"},
	emotion.Anger:      {"angry", "mad", "hate", "furious", "annoyed", "frustrated", "yell", "rage", "fight", "argue", "shout", "gussa", "naraaz", "kobam", "damn"},
	emotion.Fear:       {"scared", "afraid", "danger", "threat", "panic", "worry", "fear", "compromised", "horror", "terror", "creepy", "darr", "bhayam", "nervous", "anxious"},
	emotion.Disgust:    {"gross", "disgusting", "sick", "revolting", "nasty", "vile", "ghinauna", "yuck", "awful"},
	emotion.Surprise:   {"whoa", "surprise", "sudden", "unexpected", "shook", "achanak", "hairaan", "shock", "athirchi", "omg", "unbelievable"},
	emotion.Analytical: {"monitor", "system", "data", "analysis", "technical", "calibrate", "status", "report", "check", "verify", "screen", "code", "debug", "test", "demo"},
	emotion.Thoughtful: {"pensive", "contemplating", "considering", "listening", "hmm", "think", "thought", "sochna", "vichar", "maybe", "perhaps", "wonder", "curious"},
}

// emotionFileNameHints are weighted higher than transcript hits because
// file names survive even when transcription degrades.
var emotionFileNameHints = map[emotion.Label][]string{
	emotion.Joy:        {"happy", "joy", "funny", "comedy", "laugh", "celebration", "party"},
	emotion.Sadness:    {"sad", "cry", "emotional", "tragic", "drama", "tears", "grief"},
	emotion.Anger:      {"angry", "rage", "fight", "conflict", "tense", "intense", "action"},
	emotion.Fear:       {"scary", "horror", "fear", "dark", "thriller", "suspense"},
	emotion.Disgust:    {"disgust", "gross", "weird", "strange"},
	emotion.Surprise:   {"surprise", "shock", "reveal", "twist", "unexpected"},
	emotion.Analytical: {"screen", "recording", "tutorial", "demo", "tech", "code", "debug"},
	emotion.Thoughtful: {"interview", "talk", "discuss", "conversation", "think", "review"},
}

// Linguistic scoring weights.
const (
	transcriptHitWeight   = 1.0
	fileNameHintWeight    = 2.0
	screenRecordingWeight = 3.0
	intensityCeilingHits  = 5.0
	maxReportedAdLibs     = 8
)

var tokenPattern = regexp.MustCompile(`\b[\w']+\b`)

// HeuristicLinguistic aligns transcripts against the reference script
// using token overlap, and scores emotion vocabulary.
type HeuristicLinguistic struct{}

// NewHeuristicLinguistic returns a token-overlap linguistic extractor.
func NewHeuristicLinguistic() *HeuristicLinguistic { return &HeuristicLinguistic{} }

// ExtractLinguistic compares transcript against the reference script and
// scores emotional vocabulary from both transcript and file name.
func (e *HeuristicLinguistic) ExtractLinguistic(ctx context.Context, transcript, script, fileName string) (signal.Linguistic, error) {
	if err := ctx.Err(); err != nil {
		return signal.Linguistic{}, err
	}

	out := signal.Linguistic{Emotions: map[string]float64{}}

	similarity, adLibs := alignScript(transcript, script)
	out.Similarity = similarity
	out.AdLibs = adLibs

	text := strings.ToLower(transcript)
	fname := strings.ToLower(fileName)
	for _, label := range emotion.Vocabulary {
		var score float64
		for _, kw := range emotionTranscriptKeywords[label] {
			if strings.Contains(text, kw) {
				score += transcriptHitWeight
			}
		}
		for _, hint := range emotionFileNameHints[label] {
			if strings.Contains(fname, hint) {
				score += fileNameHintWeight
			}
		}
		if score > 0 {
			out.Emotions[string(label)] = score
		}
	}
	// Screen recordings read as analytical regardless of dialogue.
	for _, marker := range []string{"screen", "recording", "capture"} {
		if strings.Contains(fname, marker) {
			out.Emotions[string(emotion.Analytical)] += screenRecordingWeight
			break
		}
	}

	var maxScore float64
	for _, v := range out.Emotions {
		if v > maxScore {
			maxScore = v
		}
	}
	out.Intensity = maxScore / intensityCeilingHits
	if out.Intensity > 1 {
		out.Intensity = 1
	}

	out.Reasoning = fmt.Sprintf("Script alignment shows %.1f%% accuracy.", similarity*100)
	if len(adLibs) > 0 {
		n := len(adLibs)
		if n > 3 {
			n = 3
		}
		out.Reasoning += fmt.Sprintf(" Detected potential ad-libs: %s.", strings.Join(adLibs[:n], ", "))
	}
	return out, nil
}

// alignScript computes a Dice coefficient over word sets and collects
// transcript words absent from the script as ad-lib candidates.
func alignScript(transcript, script string) (float64, []string) {
	if transcript == "" || script == "" {
		return 0, nil
	}
	tWords := tokenSet(transcript)
	sWords := tokenSet(script)
	if len(tWords) == 0 || len(sWords) == 0 {
		return 0, nil
	}

	var overlap int
	var adLibs []string
	for w := range tWords {
		if _, ok := sWords[w]; ok {
			overlap++
		} else {
			adLibs = append(adLibs, w)
		}
	}
	sort.Strings(adLibs)
	if len(adLibs) > maxReportedAdLibs {
		adLibs = adLibs[:maxReportedAdLibs]
	}

	similarity := 2 * float64(overlap) / float64(len(tWords)+len(sWords))
	return similarity, adLibs
}

func tokenSet(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		out[w] = struct{}{}
	}
	return out
}
