package probe

import (
	"context"
	"net/http"
	"time"

	"github.com/hamed0406/domainhealth/internal/domain"
)

// DefaultLatencyThreshold is the exclusive upper bound on round-trip time
// for a probe to count as UP.
const DefaultLatencyThreshold = 500 * time.Millisecond

// CheckResult is the unified result of a single probe.
//
// Fields:
//   - StatusCode: HTTP status code when available; 0 for transport/DNS errors.
//   - Latency: time from dispatch until the full body was read (or the failure).
//   - Message: human-readable reason, only used for logs.
type CheckResult struct {
	Status     domain.Status
	StatusCode int
	Latency    time.Duration
	Message    string
}

// Checker performs a single check for one endpoint. Implementations never
// return an error: every failure is reported as a DOWN result.
type Checker interface {
	Check(ctx context.Context, spec domain.EndpointSpec) CheckResult
}

// Classify is the UP/DOWN rule for a completed HTTP exchange: a 2xx status
// received strictly faster than threshold.
func Classify(statusCode int, latency, threshold time.Duration) domain.Status {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices && latency < threshold {
		return domain.StatusUp
	}
	return domain.StatusDown
}
