// Package take defines the central Take aggregate and its analysis lifecycle.
package take

import (
	"time"

	"github.com/cineai/smartcut/internal/domain/emotion"
	"github.com/cineai/smartcut/internal/domain/pillar"
	"github.com/cineai/smartcut/internal/domain/signal"
)

// StageState is the lifecycle state of one pipeline stage for one take.
type StageState string

// Stage states.
const (
	StagePending   StageState = "pending"
	StageRunning   StageState = "running"
	StageCompleted StageState = "completed"
	StageFailed    StageState = "failed"
)

// Stage identifies a pipeline stage.
type Stage string

// Pipeline stages in execution order.
const (
	StageVisual    Stage = "visual"
	StageAcoustic  Stage = "acoustic"
	StageAlignment Stage = "alignment"
	StageScoring   Stage = "scoring"
	StageIndexing  Stage = "indexing"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageVisual, StageAcoustic, StageAlignment, StageScoring, StageIndexing}

// StageWeights drive the weighted progress percentage.
var StageWeights = map[Stage]float64{
	StageVisual:    2.0,
	StageAcoustic:  2.0,
	StageAlignment: 1.0,
	StageScoring:   0.5,
	StageIndexing:  0.5,
}

// Take is one recorded clip together with everything the pipeline
// derived from it. Fields fill in incrementally as stages complete;
// once analysis finishes, the record only changes on explicit re-analysis.
type Take struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Script   string `json:"script,omitempty"` // reference script text

	DurationSec float64 `json:"duration_sec"`

	Visual     *signal.Visual     `json:"visual,omitempty"`
	Acoustic   *signal.Acoustic   `json:"acoustic,omitempty"`
	Linguistic *signal.Linguistic `json:"linguistic,omitempty"`

	Pillars    *pillar.Set `json:"pillars,omitempty"`
	Confidence float64     `json:"confidence"` // composite 0-100
	Reasoning  []string    `json:"reasoning,omitempty"`
	Degraded   bool        `json:"degraded"` // true when any pillar used a fallback

	Emotion           emotion.Label `json:"emotion,omitempty"`
	EmotionConfidence float64       `json:"emotion_confidence"`
	PacingWPS         float64       `json:"pacing_wps"` // words per second

	Description string    `json:"description,omitempty"` // descriptive text fed to the embedder
	Embedding   []float32 `json:"embedding,omitempty"`
	ModelTag    string    `json:"model_tag,omitempty"`

	StageStates map[Stage]StageState `json:"stage_states,omitempty"`
	AnalyzedAt  time.Time            `json:"analyzed_at,omitzero"`
}

// New creates an unanalyzed take with all stages pending.
func New(id, fileName, filePath, script string) *Take {
	states := make(map[Stage]StageState, len(Stages))
	for _, s := range Stages {
		states[s] = StagePending
	}
	return &Take{
		ID:          id,
		FileName:    fileName,
		FilePath:    filePath,
		Script:      script,
		StageStates: states,
	}
}

// Analyzed reports whether every stage reached a terminal state.
func (t *Take) Analyzed() bool {
	if len(t.StageStates) == 0 {
		return false
	}
	for _, s := range Stages {
		st := t.StageStates[s]
		if st != StageCompleted && st != StageFailed {
			return false
		}
	}
	return true
}

// Indexed reports whether the take has a usable embedding.
func (t *Take) Indexed() bool {
	return len(t.Embedding) > 0 && t.StageStates[StageIndexing] == StageCompleted
}

// Progress returns the weighted completion percentage in [0,100].
// Failed stages count as done: the pipeline is finished with them.
func (t *Take) Progress() int {
	var total, done float64
	for _, s := range Stages {
		w := StageWeights[s]
		total += w
		st := t.StageStates[s]
		if st == StageCompleted || st == StageFailed {
			done += w
		}
	}
	if total == 0 {
		return 0
	}
	return int(done / total * 100)
}
