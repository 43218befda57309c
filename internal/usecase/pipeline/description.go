package pipeline

import (
	"fmt"
	"strings"

	domtake "github.com/cineai/smartcut/internal/domain/take"
)

// transcriptSnippetLen caps how much dialogue enters the embedded text so
// long takes do not drown out the other modalities.
const transcriptSnippetLen = 200

// BuildDescription composes the natural-language text that gets embedded
// for semantic search. It folds every modality the pipeline produced into
// one paragraph; missing modalities are simply left out rather than
// padded, so degraded takes still embed whatever was actually observed.
func BuildDescription(t *domtake.Take) string {
	parts := make([]string, 0, 8)

	parts = append(parts, fmt.Sprintf("Take %s", t.FileName))

	if t.Acoustic != nil && strings.TrimSpace(t.Acoustic.Transcript) != "" {
		snippet := strings.TrimSpace(t.Acoustic.Transcript)
		if len(snippet) > transcriptSnippetLen {
			snippet = snippet[:transcriptSnippetLen]
		}
		parts = append(parts, "Dialogue: "+snippet)
	} else {
		parts = append(parts, "No dialogue, silent moment")
	}

	if t.Emotion != "" {
		parts = append(parts, fmt.Sprintf("Emotion: %s (confidence %.0f%%)", t.Emotion, t.EmotionConfidence*100))
	}

	if t.Visual != nil {
		if t.Visual.Description != "" {
			parts = append(parts, t.Visual.Description)
		}
		if len(t.Visual.Objects) > 0 {
			parts = append(parts, "Visible: "+strings.Join(t.Visual.Objects, ", "))
		}
		parts = append(parts, fmt.Sprintf("Visual energy: %s, complexity: %s", t.Visual.Energy, t.Visual.Complexity))
	}

	if t.Acoustic != nil {
		if t.Acoustic.Description != "" {
			parts = append(parts, t.Acoustic.Description)
		}
		if t.Acoustic.LaughterDetected {
			parts = append(parts, "Laughter detected during this moment")
		}
		if len(t.Acoustic.VocalCues) > 0 {
			parts = append(parts, "Vocal cues: "+strings.Join(t.Acoustic.VocalCues, ", "))
		}
		if t.Acoustic.HesitationSec > 1.0 {
			parts = append(parts, "Timing: hesitant delivery")
		}
	}

	if t.PacingWPS > 0 {
		parts = append(parts, fmt.Sprintf("Speech rate: %.1f words per second", t.PacingWPS))
	}

	if t.Linguistic != nil && len(t.Linguistic.AdLibs) > 0 {
		parts = append(parts, "Ad-libs: "+strings.Join(t.Linguistic.AdLibs, ", "))
	}

	return strings.Join(parts, ". ")
}
