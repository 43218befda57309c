package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; search and analysis may
	// still work for cached or queued work.
	Degraded Status = "degraded"
	// Unhealthy indicates the take store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	pipeline  PipelineReporter
}

// New creates a Service. embedding and pipeline can be nil.
func New(db DBPinger, embedding EmbeddingChecker, pipeline PipelineReporter) *Service {
	return &Service{db: db, embedding: embedding, pipeline: pipeline}
}

// Check runs health checks against all components. The take store is
// load-bearing: its failure makes the whole service unhealthy, while a
// provider outage or a saturated queue only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := Healthy
	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if s.pipeline != nil {
		if s.pipeline.QueueCapacity() > 0 && s.pipeline.QueueDepth() >= s.pipeline.QueueCapacity() {
			checks["pipeline"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["pipeline"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
