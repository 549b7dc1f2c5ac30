package runner

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
	"clusterops/preflight/internal/registry"
)

type scriptedPinger struct {
	fn func(ctx context.Context, host string) (probe.PingResult, error)
}

func (s scriptedPinger) Ping(ctx context.Context, host string) (probe.PingResult, error) {
	return s.fn(ctx, host)
}

func pingRegistry(t *testing.T, hosts ...string) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, h := range hosts {
		require.NoError(t, reg.Register(domain.CheckSpec{
			ID:      "node-reachability." + h,
			Kind:    domain.KindPing,
			Targets: []string{h},
		}))
	}
	return reg
}

func testRunner(probes probe.Set, opts Options) *Runner {
	if opts.GlobalTimeout == 0 {
		opts.GlobalTimeout = 5 * time.Second
	}
	if opts.CheckTimeout == 0 {
		opts.CheckTimeout = time.Second
	}
	if opts.MaxParallel == 0 {
		opts.MaxParallel = 4
	}
	return New(probes, nil, opts)
}

func TestRun_ReportFollowsRegistrationOrder(t *testing.T) {
	hosts := []string{"h0", "h1", "h2", "h3", "h4", "h5", "h6", "h7"}
	reg := pingRegistry(t, hosts...)

	// Random per-host delays scramble completion order.
	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		return probe.PingResult{IP: host}, nil
	}}}

	rep := testRunner(probes, Options{}).Run(context.Background(), reg)

	require.Len(t, rep.Checks, len(hosts))
	for i, h := range hosts {
		assert.Equal(t, "node-reachability."+h, rep.Checks[i].ID)
		assert.Equal(t, domain.StatusPass, rep.Checks[i].Status)
	}
	assert.Equal(t, domain.StatusPass, rep.Overall)
}

func TestRun_HangingCheckBecomesTimeout(t *testing.T) {
	reg := pingRegistry(t, "fast", "hung")

	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		if host == "hung" {
			<-ctx.Done()
			return probe.PingResult{}, ctx.Err()
		}
		return probe.PingResult{IP: host}, nil
	}}}

	rep := testRunner(probes, Options{CheckTimeout: 50 * time.Millisecond}).Run(context.Background(), reg)

	require.Len(t, rep.Checks, 2)
	assert.Equal(t, domain.StatusPass, rep.Checks[0].Status)
	assert.Equal(t, domain.StatusTimeout, rep.Checks[1].Status)
	assert.Equal(t, domain.StatusFail, rep.Overall)
}

func TestRun_GlobalDeadlineWithUncancellableCheck(t *testing.T) {
	reg := pingRegistry(t, "fast", "stubborn")

	// The stubborn probe ignores its context entirely. The runner must
	// still return by the global deadline with the slot marked timeout.
	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		if host == "stubborn" {
			time.Sleep(3 * time.Second)
		}
		return probe.PingResult{IP: host}, nil
	}}}

	start := time.Now()
	rep := testRunner(probes, Options{
		GlobalTimeout: 100 * time.Millisecond,
		CheckTimeout:  10 * time.Second,
	}).Run(context.Background(), reg)

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, rep.Checks, 2)
	assert.Equal(t, domain.StatusPass, rep.Checks[0].Status)
	assert.Equal(t, domain.StatusTimeout, rep.Checks[1].Status)
	assert.Equal(t, "node-reachability.stubborn", rep.Checks[1].ID)
}

func TestRun_QueuedChecksReportTimeoutAtDeadline(t *testing.T) {
	// A single execution slot held by a probe that ignores its context
	// starves everything behind it in the queue. Every starved slot must
	// still surface as a timeout result with its own ID, and the summary
	// must account for every check.
	hosts := make([]string, 50)
	for i := range hosts {
		hosts[i] = fmt.Sprintf("host-%02d", i)
	}
	reg := pingRegistry(t, hosts...)

	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		time.Sleep(2 * time.Second)
		return probe.PingResult{IP: host}, nil
	}}}

	rep := testRunner(probes, Options{
		GlobalTimeout: 100 * time.Millisecond,
		CheckTimeout:  10 * time.Second,
		MaxParallel:   1,
	}).Run(context.Background(), reg)

	require.Len(t, rep.Checks, len(hosts))
	for i, h := range hosts {
		assert.Equal(t, "node-reachability."+h, rep.Checks[i].ID, "slot %d", i)
		assert.Equal(t, domain.StatusTimeout, rep.Checks[i].Status, "slot %d", i)
	}
	assert.Equal(t, len(hosts), rep.Summary.Total)
	assert.Equal(t, len(hosts), rep.Summary.Timeout)
	assert.Equal(t, domain.StatusFail, rep.Overall)
}

func TestRun_PanicIsIsolated(t *testing.T) {
	reg := pingRegistry(t, "ok-1", "boom", "ok-2")

	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		if host == "boom" {
			panic("probe exploded")
		}
		return probe.PingResult{IP: host}, nil
	}}}

	rep := testRunner(probes, Options{}).Run(context.Background(), reg)

	require.Len(t, rep.Checks, 3)
	assert.Equal(t, domain.StatusPass, rep.Checks[0].Status)
	assert.Equal(t, domain.StatusError, rep.Checks[1].Status)
	assert.Contains(t, rep.Checks[1].Error, "probe exploded")
	assert.Equal(t, domain.StatusPass, rep.Checks[2].Status)
	assert.Equal(t, domain.StatusFail, rep.Overall)
}

func TestRun_UnknownKindBecomesError(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(domain.CheckSpec{ID: "bogus", Kind: "warp", Targets: []string{"x"}}))
	require.NoError(t, reg.Register(domain.CheckSpec{ID: "good", Kind: domain.KindPing, Targets: []string{"h"}}))

	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		return probe.PingResult{IP: host}, nil
	}}}

	rep := testRunner(probes, Options{}).Run(context.Background(), reg)

	require.Len(t, rep.Checks, 2)
	assert.Equal(t, domain.StatusError, rep.Checks[0].Status)
	assert.Equal(t, domain.StatusPass, rep.Checks[1].Status)
}

func TestRun_BoundedParallelism(t *testing.T) {
	const n = 12
	hosts := make([]string, n)
	for i := range hosts {
		hosts[i] = string(rune('a' + i))
	}
	reg := pingRegistry(t, hosts...)

	inFlight := make(chan struct{}, n)
	var maxSeen int
	seen := make(chan int, n)

	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		inFlight <- struct{}{}
		seen <- len(inFlight)
		time.Sleep(10 * time.Millisecond)
		<-inFlight
		return probe.PingResult{IP: host}, nil
	}}}

	rep := testRunner(probes, Options{MaxParallel: 3}).Run(context.Background(), reg)
	require.Len(t, rep.Checks, n)

	close(seen)
	for s := range seen {
		if s > maxSeen {
			maxSeen = s
		}
	}
	assert.LessOrEqual(t, maxSeen, 3)
}

func TestRun_DeterministicUnderFixedProbes(t *testing.T) {
	reg := pingRegistry(t, "h0", "h1", "h2")

	probes := probe.Set{Pinger: scriptedPinger{fn: func(ctx context.Context, host string) (probe.PingResult, error) {
		if host == "h1" {
			return probe.PingResult{}, assert.AnError
		}
		return probe.PingResult{IP: host}, nil
	}}}

	r := testRunner(probes, Options{})
	first := r.Run(context.Background(), reg)
	second := r.Run(context.Background(), reg)

	require.Len(t, second.Checks, len(first.Checks))
	for i := range first.Checks {
		assert.Equal(t, first.Checks[i].ID, second.Checks[i].ID)
		assert.Equal(t, first.Checks[i].Status, second.Checks[i].Status)
	}
	assert.Equal(t, first.Overall, second.Overall)
	assert.NotEqual(t, first.RunID, second.RunID)
}
