package checks

import (
	"context"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// outcome converts a probe error into the matching result status.
func outcome(err error) domain.Status {
	switch {
	case err == nil:
		return domain.StatusPass
	case probe.IsTimeout(err):
		return domain.StatusTimeout
	default:
		return domain.StatusFail
	}
}

// result fills the fields every check result shares.
func result(spec domain.CheckSpec, start time.Time, status domain.Status) domain.CheckResult {
	return domain.CheckResult{
		ID:         spec.ID,
		Kind:       spec.Kind,
		Target:     spec.Target(),
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
	}
}

// expired reports whether the check's own deadline has fired, as
// opposed to an individual probe timing out.
func expired(ctx context.Context) bool {
	return ctx.Err() == context.DeadlineExceeded
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
