// Package extractor implements the per-modality signal extractors. The
// heuristic extractors here work from file metadata and name-derived
// entropy only, so the same take always yields the same signals.
package extractor

import (
	"context"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/cineai/smartcut/internal/domain/signal"
)

// Visual extracts object and frame-quality signals from a take.
type Visual interface {
	ExtractVisual(ctx context.Context, filePath string) (signal.Visual, error)
}

// Acoustic extracts transcription and audio-quality signals from a take.
type Acoustic interface {
	ExtractAcoustic(ctx context.Context, filePath string) (signal.Acoustic, error)
}

// Linguistic aligns a transcript against the reference script and scores
// its emotional content.
type Linguistic interface {
	ExtractLinguistic(ctx context.Context, transcript, script, fileName string) (signal.Linguistic, error)
}

// seed derives a stable entropy value from the file name and size.
// Modification time is deliberately excluded so re-analysis of an
// untouched take is idempotent.
func seed(filePath string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(filepath.Base(filePath)))
	s := h.Sum64()
	if info, err := os.Stat(filePath); err == nil {
		s += uint64(info.Size())
	}
	return s
}

// sizeMB returns the file size in megabytes, 0 when the file is missing.
func sizeMB(filePath string) float64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}
