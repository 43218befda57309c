// Package expansion enriches search queries with related terms before
// embedding and keyword matching. Expansion is pure and deterministic:
// the same query always produces the same term set, and unknown tokens
// pass through unchanged.
package expansion

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cineai/smartcut/internal/domain/emotion"
)

// abbreviations maps short forms to their expansions. The table is
// applied bidirectionally: a query containing an expansion phrase also
// picks up the abbreviation.
var abbreviations = map[string][]string{
	// legal / incident vocabulary
	"fir":  {"first information report", "first incident report", "police report", "complaint"},
	"cctv": {"closed circuit television", "security camera", "surveillance", "camera footage"},

	// production vocabulary
	"ui":  {"user interface", "interface", "screen", "display"},
	"hd":  {"high definition", "1080p", "high quality"},
	"4k":  {"ultra hd", "uhd", "2160p", "ultra high definition"},
	"fps": {"frames per second", "frame rate", "framerate"},
	"vfx": {"visual effects", "cgi", "special effects"},
	"sfx": {"sound effects", "audio effects"},
	"bts": {"behind the scenes", "making of"},
	"mos": {"without sound", "silent take"},
	"ots": {"over the shoulder", "over the shoulder shot"},
	"pov": {"point of view", "point of view shot"},

	// everyday shorthand
	"pic": {"picture", "photo", "image", "photograph"},
	"vid": {"video", "clip", "footage", "recording"},
}

// synonymGroups are closed sets of mutually matching terms.
var synonymGroups = [][]string{
	// emotions
	{"happy", "joyful", "cheerful", "delighted", "pleased", "glad", "elated"},
	{"sad", "unhappy", "sorrowful", "melancholy", "gloomy", "dejected"},
	{"angry", "furious", "enraged", "irate", "mad", "upset", "irritated"},
	{"scared", "afraid", "frightened", "terrified", "fearful", "nervous", "anxious"},
	{"surprised", "shocked", "amazed", "astonished", "startled", "stunned"},

	// actions
	{"walk", "walking", "stroll", "stride", "pace"},
	{"run", "running", "sprint", "dash", "rush"},
	{"talk", "talking", "speak", "speaking", "converse", "discuss"},
	{"fight", "fighting", "battle", "combat", "brawl", "scuffle"},
	{"laugh", "laughing", "giggle", "chuckle"},
	{"cry", "crying", "weep", "sob", "tears"},

	// scene types
	{"indoor", "inside", "interior", "indoors"},
	{"outdoor", "outside", "exterior", "outdoors"},
	{"night", "nighttime", "dark", "evening", "nocturnal"},
	{"day", "daytime", "daylight", "morning", "afternoon"},
	{"closeup", "close-up", "tight shot"},
	{"wide", "wide shot", "establishing shot", "master shot"},

	// people and objects
	{"person", "people", "individual", "human", "someone"},
	{"car", "vehicle", "automobile", "auto"},
	{"phone", "mobile", "cellphone", "smartphone", "telephone"},

	// takes and quality
	{"take", "shot", "clip", "footage"},
	{"clear", "crisp", "sharp", "high quality"},
	{"blurry", "fuzzy", "unclear", "out of focus", "hazy"},
	{"loud", "noisy", "high volume"},
	{"quiet", "silent", "muted", "soft", "low volume"},
}

// emotionKeywords maps emotion labels to query vocabulary that implies
// them. Used by EmotionMatches to derive implicit emotion filters.
var emotionKeywords = map[emotion.Label][]string{
	emotion.Joy:        {"happy", "joyful", "cheerful", "delighted", "excited", "fun", "funny", "comedy", "laugh"},
	emotion.Sadness:    {"sad", "unhappy", "melancholy", "gloomy", "tragic", "cry", "tears"},
	emotion.Anger:      {"angry", "furious", "mad", "enraged", "frustrated", "tense", "intense", "fight"},
	emotion.Fear:       {"scared", "afraid", "frightened", "terrified", "horror", "scary", "creepy", "nervous"},
	emotion.Surprise:   {"surprised", "shocked", "amazed", "unexpected", "twist", "reveal", "startled"},
	emotion.Disgust:    {"disgusted", "gross", "revolting", "nasty", "weird"},
	emotion.Analytical: {"technical", "analytical", "screen", "recording", "tutorial", "demo", "code"},
	emotion.Thoughtful: {"thoughtful", "pensive", "contemplating", "interview", "discussion"},
}

var wordPattern = regexp.MustCompile(`\b[\w-]+\b`)

// derived lookup maps, built once from the tables above.
var (
	synonymMap = buildSynonymMap()
	abbrMap    = buildAbbreviationMap()
)

func buildSynonymMap() map[string][]string {
	m := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, term := range group {
			m[term] = append(m[term], group...)
		}
	}
	return m
}

func buildAbbreviationMap() map[string][]string {
	m := make(map[string][]string)
	for abbr, expansions := range abbreviations {
		m[abbr] = append(m[abbr], expansions...)
		for _, exp := range expansions {
			m[exp] = append(m[exp], abbr)
		}
	}
	return m
}

// Result is the ephemeral outcome of expanding one query. Terms is
// sorted and deduplicated; it always contains the original query words.
type Result struct {
	Original  string   `json:"original"`
	Words     []string `json:"query_words"`
	Terms     []string `json:"expanded_terms"`
	Reasoning []string `json:"expansion_reasoning,omitempty"`
}

// Expand maps a raw query to a superset of related search terms using
// the abbreviation and synonym tables.
func Expand(query string) Result {
	original := strings.TrimSpace(query)
	lower := strings.ToLower(original)
	words := wordPattern.FindAllString(lower, -1)

	terms := make(map[string]struct{}, len(words))
	var reasoning []string
	for _, w := range words {
		terms[w] = struct{}{}
	}

	for _, w := range words {
		if related, ok := abbrMap[w]; ok {
			for _, t := range related {
				terms[t] = struct{}{}
			}
			reasoning = append(reasoning, fmt.Sprintf("%q expanded to: %s", w, strings.Join(related, ", ")))
		}
		if syns, ok := synonymMap[w]; ok {
			added := false
			for _, t := range syns {
				if t == w {
					continue
				}
				if _, seen := terms[t]; !seen {
					terms[t] = struct{}{}
					added = true
				}
			}
			if added {
				reasoning = append(reasoning, fmt.Sprintf("%q matched a synonym group", w))
			}
		}
	}

	// Multi-word expansion phrases present in the query map back to
	// their abbreviation.
	for abbr, expansions := range abbreviations {
		for _, exp := range expansions {
			if strings.Contains(exp, " ") && strings.Contains(lower, exp) {
				if _, seen := terms[abbr]; !seen {
					terms[abbr] = struct{}{}
					reasoning = append(reasoning, fmt.Sprintf("%q maps to abbreviation %q", exp, abbr))
				}
				terms[exp] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(terms))
	for t := range terms {
		out = append(out, t)
	}
	sort.Strings(out)
	sort.Strings(reasoning)

	return Result{Original: original, Words: words, Terms: out, Reasoning: reasoning}
}

// EmotionMatches returns the emotion labels implied by the query
// vocabulary, in canonical vocabulary order.
func EmotionMatches(query string) []emotion.Label {
	lower := strings.ToLower(query)
	var matched []emotion.Label
	for _, label := range emotion.Vocabulary {
		for _, kw := range emotionKeywords[label] {
			if strings.Contains(lower, kw) {
				matched = append(matched, label)
				break
			}
		}
	}
	return matched
}

// MatchScore measures how well target text covers the expanded terms,
// in [0,1]. Whole-word hits count fully, substring hits half.
func MatchScore(terms []string, target string) float64 {
	if len(terms) == 0 || target == "" {
		return 0
	}
	lower := strings.ToLower(target)
	targetWords := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(lower, -1) {
		targetWords[w] = struct{}{}
	}

	var matches float64
	for _, term := range terms {
		if _, ok := targetWords[term]; ok {
			matches++
		} else if strings.Contains(lower, term) {
			matches += 0.5
		}
	}
	score := matches / float64(len(terms))
	if score > 1 {
		score = 1
	}
	return score
}
