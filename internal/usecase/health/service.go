package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
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

// Service coordinates health checks. A degraded backend never takes the
// service down: search and replies fall back to their deterministic
// tiers, so the report distinguishes degraded from healthy but both keep
// serving.
type Service struct {
	db      DBPinger
	backend BackendChecker
}

// New creates a Service. backend can be nil.
func New(db DBPinger, backend BackendChecker) *Service {
	return &Service{db: db, backend: backend}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.backend != nil {
		if err := s.backend.HealthCheck(ctx); err != nil {
			checks["assistant_backend"] = CheckError
		} else {
			checks["assistant_backend"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
