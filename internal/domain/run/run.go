// Package run defines the analysis run ledger entry.
package run

import "time"

// Run statuses. Terminal statuses mirror the analysis outcome.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusFailed    = "failed"
)

// Record is one analysis run's ledger entry.
type Record struct {
	RunID      string    `json:"run_id"`
	TakeID     string    `json:"take_id"`
	Status     string    `json:"status"`
	QueuedAt   time.Time `json:"queued_at"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Terminal reports whether the run reached a final status.
func (r Record) Terminal() bool {
	switch r.Status {
	case StatusCompleted, StatusDegraded, StatusFailed:
		return true
	}
	return false
}
