package smartcut

import (
	"time"

	domrun "github.com/cineai/smartcut/internal/domain/run"
	"github.com/cineai/smartcut/internal/domain/search/result"
	domtake "github.com/cineai/smartcut/internal/domain/take"
	"github.com/cineai/smartcut/internal/index"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
)

// TakeInput describes a take to register. FileName is required; an
// empty ID is replaced with a generated one, an empty FilePath defaults
// to the file name.
type TakeInput struct {
	ID       string
	FileName string
	FilePath string
	Script   string
}

// Pillars holds the seven per-pillar scores, each in [0,100].
type Pillars struct {
	Performance     float64
	StoryClarity    float64
	Coverage        float64
	Technical       float64
	ToneRhythm      float64
	EditImagination float64
	Instinct        float64
}

// Take is one registered clip with everything analysis derived from it.
type Take struct {
	ID       string
	FileName string
	FilePath string
	Script   string

	DurationSec float64

	Pillars    *Pillars
	Confidence float64
	Reasoning  []string
	Degraded   bool

	Emotion           string
	EmotionConfidence float64
	PacingWPS         float64

	Transcript  string
	Description string
	ModelTag    string

	Progress    int
	Analyzed    bool
	Indexed     bool
	StageStates map[string]string
	AnalyzedAt  time.Time
}

// Result is one search hit.
type Result struct {
	TakeID       string
	FileName     string
	Similarity   float64
	Confidence   float64
	MatchSources []string
	Emotion      string
	Snippet      string
}

// Run is one analysis run's ledger entry.
type Run struct {
	RunID      string
	TakeID     string
	Status     string
	QueuedAt   time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// Terminal reports whether the run reached a final status.
func (r Run) Terminal() bool {
	switch r.Status {
	case domrun.StatusCompleted, domrun.StatusDegraded, domrun.StatusFailed:
		return true
	}
	return false
}

// IndexStats describes the current search index snapshot.
type IndexStats struct {
	Size       int
	Generation uint64
	Dimensions int
	ModelTag   string
}

// HealthReport is the aggregated component health.
type HealthReport struct {
	Status string
	Checks map[string]string
}

func takeFromDomain(t domtake.Take) Take {
	out := Take{
		ID:                t.ID,
		FileName:          t.FileName,
		FilePath:          t.FilePath,
		Script:            t.Script,
		DurationSec:       t.DurationSec,
		Confidence:        t.Confidence,
		Reasoning:         t.Reasoning,
		Degraded:          t.Degraded,
		Emotion:           string(t.Emotion),
		EmotionConfidence: t.EmotionConfidence,
		PacingWPS:         t.PacingWPS,
		Description:       t.Description,
		ModelTag:          t.ModelTag,
		Progress:          t.Progress(),
		Analyzed:          t.Analyzed(),
		Indexed:           t.Indexed(),
		AnalyzedAt:        t.AnalyzedAt,
	}
	if t.Acoustic != nil {
		out.Transcript = t.Acoustic.Transcript
	}
	if t.Pillars != nil {
		out.Pillars = &Pillars{
			Performance:     t.Pillars.Performance,
			StoryClarity:    t.Pillars.StoryClarity,
			Coverage:        t.Pillars.Coverage,
			Technical:       t.Pillars.Technical,
			ToneRhythm:      t.Pillars.ToneRhythm,
			EditImagination: t.Pillars.EditImagination,
			Instinct:        t.Pillars.Instinct,
		}
	}
	if len(t.StageStates) > 0 {
		out.StageStates = make(map[string]string, len(t.StageStates))
		for stage, state := range t.StageStates {
			out.StageStates[string(stage)] = string(state)
		}
	}
	return out
}

func resultFromDomain(r result.Result) Result {
	return Result{
		TakeID:       r.TakeID,
		FileName:     r.FileName,
		Similarity:   r.Similarity,
		Confidence:   r.Confidence,
		MatchSources: r.MatchSources,
		Emotion:      r.Emotion,
		Snippet:      r.Snippet,
	}
}

func runFromDomain(r domrun.Record) Run {
	return Run{
		RunID:      r.RunID,
		TakeID:     r.TakeID,
		Status:     r.Status,
		QueuedAt:   r.QueuedAt,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Error:      r.Error,
	}
}

func statsFromDomain(s index.Stats) IndexStats {
	return IndexStats{
		Size:       s.Size,
		Generation: s.Generation,
		Dimensions: s.Dimensions,
		ModelTag:   s.ModelTag,
	}
}

func reportFromDomain(r healthuc.Report) HealthReport {
	out := HealthReport{Status: string(r.Status)}
	if len(r.Checks) > 0 {
		out.Checks = make(map[string]string, len(r.Checks))
		for name, res := range r.Checks {
			out.Checks[name] = string(res)
		}
	}
	return out
}
