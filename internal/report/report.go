// Package report assembles check results into the final run report
// and renders it for humans and for CI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"clusterops/preflight/internal/domain"
)

// Aggregate builds the immutable report for a finished run. Overall
// status is pass only when every check passed; timeouts and errors are
// non-pass but stay distinguishable per check.
func Aggregate(runID, cluster string, started time.Time, results []domain.CheckResult) domain.Report {
	var summary domain.Summary
	for _, res := range results {
		summary.Add(res.Status)
	}

	overall := domain.StatusPass
	if summary.Pass != summary.Total {
		overall = domain.StatusFail
	}

	checks := make([]domain.CheckResult, len(results))
	copy(checks, results)

	return domain.Report{
		RunID:      runID,
		Cluster:    cluster,
		StartedAt:  started.UTC(),
		Overall:    overall,
		Checks:     checks,
		Summary:    summary,
		DurationMS: time.Since(started).Milliseconds(),
	}
}

var (
	passColor    = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed, color.Bold)
	timeoutColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgMagenta)
)

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusPass:
		return passColor.Sprint("PASS")
	case domain.StatusFail:
		return failColor.Sprint("FAIL")
	case domain.StatusTimeout:
		return timeoutColor.Sprint("TIMEOUT")
	case domain.StatusError:
		return errorColor.Sprint("ERROR")
	default:
		return string(s)
	}
}

// WriteText renders the report for a terminal, one line per check in
// registry order.
func WriteText(w io.Writer, rep domain.Report) error {
	if rep.Cluster != "" {
		if _, err := fmt.Fprintf(w, "Precheck report for cluster %s (run %s)\n\n", rep.Cluster, rep.RunID); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "Precheck report (run %s)\n\n", rep.RunID); err != nil {
			return err
		}
	}

	for _, res := range rep.Checks {
		detail := res.Detail
		if detail == "" {
			detail = res.Error
		}
		if _, err := fmt.Fprintf(w, "  %-8s %-32s %6dms  %s\n", statusLabel(res.Status), res.ID, res.DurationMS, detail); err != nil {
			return err
		}
	}

	s := rep.Summary
	_, err := fmt.Fprintf(w, "\n%s: %d passed, %d failed, %d timed out, %d errored (%d total, %dms)\n",
		statusLabel(rep.Overall), s.Pass, s.Fail, s.Timeout, s.Error, s.Total, rep.DurationMS)
	return err
}

// WriteJSON renders the report as indented JSON for CI consumption.
func WriteJSON(w io.Writer, rep domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
