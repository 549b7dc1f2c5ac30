// Package runner executes a registry of checks concurrently with
// bounded parallelism, per-check timeouts and a global deadline.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"clusterops/preflight/internal/checks"
	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
	"clusterops/preflight/internal/registry"
	"clusterops/preflight/internal/report"
)

type Options struct {
	// GlobalTimeout bounds the whole run. Checks still in flight when
	// it fires are recorded as timed out, never dropped.
	GlobalTimeout time.Duration
	// CheckTimeout is the per-check default; a spec's own Timeout
	// overrides it.
	CheckTimeout time.Duration
	// MaxParallel limits how many checks execute at once.
	MaxParallel int
	// Cluster names the cluster in the report.
	Cluster string
}

type Runner struct {
	probes probe.Set
	log    *slog.Logger
	opts   Options
}

func New(probes probe.Set, log *slog.Logger, opts Options) *Runner {
	if opts.GlobalTimeout <= 0 {
		opts.GlobalTimeout = 2 * time.Minute
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 15 * time.Second
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 8
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{probes: probes, log: log, opts: opts}
}

// Run executes every registered check and returns the aggregated
// report. The report lists exactly one result per spec in registration
// order regardless of completion order: each check writes into its own
// slot, and the slot is only read after the check's done channel
// closes, so no lock guards the result collection.
func (r *Runner) Run(ctx context.Context, reg *registry.Registry) domain.Report {
	specs := reg.All()
	started := time.Now()
	runID := uuid.NewString()

	r.log.Info("starting precheck run",
		"run_id", runID,
		"checks", len(specs),
		"max_parallel", r.opts.MaxParallel,
		"global_timeout", r.opts.GlobalTimeout,
	)

	runCtx, cancel := context.WithTimeout(ctx, r.opts.GlobalTimeout)
	defer cancel()

	results := make([]domain.CheckResult, len(specs))
	done := make([]chan struct{}, len(specs))
	sem := semaphore.NewWeighted(int64(r.opts.MaxParallel))

	for i, spec := range specs {
		done[i] = make(chan struct{})
		go func(i int, spec domain.CheckSpec) {
			defer close(done[i])
			// The slot must hold a timeout result, not a zero value,
			// when the deadline fires while still queued: the write
			// happens before the deferred close, so the collector sees
			// it whichever branch of its select wins.
			if err := sem.Acquire(runCtx, 1); err != nil {
				results[i] = timeoutResult(spec, "never acquired an execution slot before the run deadline", started)
				return
			}
			defer sem.Release(1)
			results[i] = r.execute(runCtx, spec)
		}(i, spec)
	}

	// Wait for completion or the global deadline, whichever first.
	for i := range done {
		select {
		case <-done[i]:
		case <-runCtx.Done():
		}
		if runCtx.Err() != nil {
			break
		}
	}

	final := make([]domain.CheckResult, len(specs))
	for i, spec := range specs {
		select {
		case <-done[i]:
			final[i] = results[i]
		default:
			// Still in flight: the probe ignored cancellation. Record
			// the slot instead of omitting it.
			final[i] = timeoutResult(spec, "did not finish before the run deadline", started)
		}
	}

	rep := report.Aggregate(runID, r.opts.Cluster, started, final)
	r.log.Info("precheck run finished",
		"run_id", runID,
		"overall", rep.Overall,
		"pass", rep.Summary.Pass,
		"fail", rep.Summary.Fail,
		"timeout", rep.Summary.Timeout,
		"error", rep.Summary.Error,
		"duration_ms", rep.DurationMS,
	)
	return rep
}

// timeoutResult fills a report slot for a check that never produced
// its own result before the run deadline.
func timeoutResult(spec domain.CheckSpec, detail string, started time.Time) domain.CheckResult {
	return domain.CheckResult{
		ID:         spec.ID,
		Kind:       spec.Kind,
		Target:     spec.Target(),
		Status:     domain.StatusTimeout,
		Detail:     detail,
		DurationMS: time.Since(started).Milliseconds(),
	}
}

// execute runs a single check under its own timeout. A panic anywhere
// inside the check or its probes becomes an error result for that slot
// and never takes down sibling checks.
func (r *Runner) execute(ctx context.Context, spec domain.CheckSpec) (res domain.CheckResult) {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = r.opts.CheckTimeout
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("check panicked", "check", spec.ID, "panic", fmt.Sprint(p))
			res = domain.CheckResult{
				ID:         spec.ID,
				Kind:       spec.Kind,
				Target:     spec.Target(),
				Status:     domain.StatusError,
				Error:      fmt.Sprintf("panic: %v", p),
				DurationMS: time.Since(start).Milliseconds(),
			}
		}
	}()

	chk, err := checks.New(spec)
	if err != nil {
		return domain.CheckResult{
			ID:         spec.ID,
			Kind:       spec.Kind,
			Target:     spec.Target(),
			Status:     domain.StatusError,
			Error:      err.Error(),
			DurationMS: time.Since(start).Milliseconds(),
		}
	}

	r.log.Debug("check started", "check", spec.ID, "kind", spec.Kind, "timeout", timeout)
	res = chk.Run(checkCtx, r.probes)
	r.log.Debug("check finished", "check", spec.ID, "status", res.Status, "duration_ms", res.DurationMS)
	return res
}
