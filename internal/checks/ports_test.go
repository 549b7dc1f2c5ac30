package checks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

func portSpec(ports ...int) domain.CheckSpec {
	return domain.CheckSpec{
		ID:       "ports.node-a",
		Kind:     domain.KindPortOpen,
		Targets:  []string{"node-a"},
		Expected: domain.Expected{Ports: ports},
	}
}

func TestPortCheck_AllOpen(t *testing.T) {
	chk, err := New(portSpec(6443, 22623, 443))
	require.NoError(t, err)

	probes := probe.Set{Dialer: fakeDialer{fn: func(ctx context.Context, host string, port int) error {
		return nil
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusPass, res.Status)
	assert.Contains(t, res.Detail, "all 3 required ports open")
}

func TestPortCheck_MissingPortsEnumerated(t *testing.T) {
	chk, err := New(portSpec(6443, 22623, 443))
	require.NoError(t, err)

	open := map[int]bool{6443: true, 443: true}
	probes := probe.Set{Dialer: fakeDialer{fn: func(ctx context.Context, host string, port int) error {
		if open[port] {
			return nil
		}
		return errors.New("connection refused")
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Contains(t, res.Detail, "missing ports 22623")
	assert.NotContains(t, res.Detail, "6443")
	assert.Equal(t, []int{22623}, res.Observed["missing"])
	assert.Equal(t, []int{6443, 443}, res.Observed["open"])
}

func TestPortCheck_DeadlineExpired(t *testing.T) {
	chk, err := New(portSpec(6443, 22623))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	probes := probe.Set{Dialer: fakeDialer{fn: func(ctx context.Context, host string, port int) error {
		<-ctx.Done()
		return ctx.Err()
	}}}

	res := chk.Run(ctx, probes)
	assert.Equal(t, domain.StatusTimeout, res.Status)
}
