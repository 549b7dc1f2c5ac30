package domain

import "time"

// Summary counts check outcomes by status.
type Summary struct {
	Pass    int `json:"pass"`
	Fail    int `json:"fail"`
	Timeout int `json:"timeout"`
	Error   int `json:"error"`
	Total   int `json:"total"`
}

func (s *Summary) Add(status Status) {
	s.Total++
	switch status {
	case StatusPass:
		s.Pass++
	case StatusFail:
		s.Fail++
	case StatusTimeout:
		s.Timeout++
	case StatusError:
		s.Error++
	}
}

// Report is the aggregated outcome of a full run. The Checks slice
// follows registry registration order and the struct is never mutated
// after assembly.
type Report struct {
	RunID      string        `json:"run_id"`
	Cluster    string        `json:"cluster,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Overall    Status        `json:"overall"`
	Checks     []CheckResult `json:"checks"`
	Summary    Summary       `json:"summary"`
	DurationMS int64         `json:"duration_ms"`
}

// Passed reports whether every check in the report passed.
func (r Report) Passed() bool {
	return r.Overall == StatusPass
}
