// Package signal defines the per-modality extractor result types.
//
// Each modality is its own struct rather than a loose map so the pillar
// scorer can see exactly which fields are required and which are
// optional, and apply the documented neutral defaults when a modality is
// missing instead of probing for attributes at runtime.
package signal

// Energy describes the visual motion level of a take.
type Energy string

// Visual energy levels and their documented pillar-input mapping.
const (
	EnergyCalm          Energy = "calm"           // maps to 40
	EnergyDynamic       Energy = "dynamic"        // maps to 70
	EnergyHighIntensity Energy = "high-intensity" // maps to 90
)

// Complexity describes how visually busy a take is.
type Complexity string

// Visual complexity buckets.
const (
	ComplexitySimple    Complexity = "simple"
	ComplexityModerate  Complexity = "moderate"
	ComplexityIntricate Complexity = "intricate"
)

// NeutralScore is the documented fallback for any missing scalar signal.
const NeutralScore = 50.0

// Visual is the object-detection and frame-quality result for one take.
type Visual struct {
	DurationSec    float64    `json:"duration_sec"`
	Objects        []string   `json:"objects"`
	Energy         Energy     `json:"energy"`
	Complexity     Complexity `json:"complexity"`
	TechnicalScore float64    `json:"technical_score"` // 0-100, focus + stability
	Description    string     `json:"description"`
	Reasoning      string     `json:"reasoning"`
	Confidence     float64    `json:"confidence"` // 0-1, extractor self-assessment
}

// NeutralVisual is the documented substitute when visual extraction fails.
func NeutralVisual() Visual {
	return Visual{
		Energy:         EnergyCalm,
		Complexity:     ComplexitySimple,
		TechnicalScore: NeutralScore,
		Reasoning:      "visual analysis unavailable; neutral defaults applied",
	}
}

// Acoustic is the transcription and audio-quality result for one take.
type Acoustic struct {
	Transcript        string   `json:"transcript"`
	Language          string   `json:"language"`
	DurationSec       float64  `json:"duration_sec"`
	QualityScore      float64  `json:"quality_score"` // 0-100, SNR-derived
	WordsPerSec       float64  `json:"words_per_sec"` // 0 when unknown
	HesitationSec     float64  `json:"hesitation_sec"`
	LaughterDetected  bool     `json:"laughter_detected"`
	SegmentConfidence float64  `json:"segment_confidence"` // 0-1 mean over segments
	VocalCues         []string `json:"vocal_cues,omitempty"`
	Description       string   `json:"description"`
	Reasoning         string   `json:"reasoning"`
}

// NeutralAcoustic is the documented substitute when acoustic extraction fails.
func NeutralAcoustic() Acoustic {
	return Acoustic{
		QualityScore: NeutralScore,
		Reasoning:    "acoustic analysis unavailable; neutral defaults applied",
	}
}

// Linguistic is the script-alignment result for one take.
type Linguistic struct {
	Similarity float64  `json:"similarity"` // 0-1 transcript vs reference script
	Intensity  float64  `json:"intensity"`  // 0-1 emotional intensity
	AdLibs     []string `json:"ad_libs,omitempty"`
	Emotions   map[string]float64 `json:"emotions,omitempty"` // label -> score
	Reasoning  string   `json:"reasoning"`
}

// NeutralLinguistic is the documented substitute when linguistic extraction fails.
func NeutralLinguistic() Linguistic {
	return Linguistic{
		Similarity: 0.5,
		Intensity:  0.5,
		Reasoning:  "linguistic analysis unavailable; neutral defaults applied",
	}
}

// EnergyScore maps the visual energy level onto the 0-100 pillar-input scale.
func EnergyScore(e Energy) float64 {
	switch e {
	case EnergyCalm:
		return 40
	case EnergyDynamic:
		return 70
	case EnergyHighIntensity:
		return 90
	default:
		return NeutralScore
	}
}
