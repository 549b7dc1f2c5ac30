package domain

// Status is the terminal state of a single check execution.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusTimeout means the check did not finish in time. It is
	// inconclusive, not confirmed broken, and stays distinct from fail.
	StatusTimeout Status = "timeout"
	// StatusError marks an unexpected fault inside the check itself,
	// e.g. a malformed spec or a panic in a probe.
	StatusError Status = "error"
)

// CheckResult is the write-once outcome of executing one CheckSpec.
type CheckResult struct {
	ID         string         `json:"id"`
	Kind       CheckKind      `json:"kind"`
	Target     string         `json:"target,omitempty"`
	Status     Status         `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Observed   map[string]any `json:"observed,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}
