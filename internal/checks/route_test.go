package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

func routeCheck(t *testing.T, targets ...string) Check {
	t.Helper()
	chk, err := New(domain.CheckSpec{ID: "routes", Kind: domain.KindRouteCheck, Targets: targets})
	require.NoError(t, err)
	return chk
}

func TestRouteCheck_DefaultRouteTimeout(t *testing.T) {
	chk := routeCheck(t, "10.0.0.5")

	probes := probe.Set{Routes: fakeRoutes{
		def: func(ctx context.Context) (probe.Route, error) {
			return probe.Route{}, timeoutErr("ip route show default")
		},
		lookup: func(ctx context.Context, destination string) (probe.Route, error) {
			t.Fatal("lookup must not run after the default route query times out")
			return probe.Route{}, nil
		},
	}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusTimeout, res.Status)
	assert.Contains(t, res.Error, "ip route show default")
}

func TestRouteCheck_LookupTimeout(t *testing.T) {
	chk := routeCheck(t, "10.0.0.5", "10.0.0.6")

	probes := probe.Set{Routes: fakeRoutes{
		def: func(ctx context.Context) (probe.Route, error) {
			return probe.Route{Gateway: "10.0.0.1", Device: "eth0"}, nil
		},
		lookup: func(ctx context.Context, destination string) (probe.Route, error) {
			if destination == "10.0.0.6" {
				return probe.Route{}, timeoutErr("ip route get 10.0.0.6")
			}
			return probe.Route{Gateway: "10.0.0.1", Device: "eth0"}, nil
		},
	}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusTimeout, res.Status)
	assert.Contains(t, res.Error, "10.0.0.6")
}

func TestRouteCheck_UnroutableTarget(t *testing.T) {
	chk := routeCheck(t, "10.0.0.5", "192.168.9.9")

	probes := probe.Set{Routes: fakeRoutes{
		def: func(ctx context.Context) (probe.Route, error) {
			return probe.Route{Gateway: "10.0.0.1", Device: "eth0"}, nil
		},
		lookup: func(ctx context.Context, destination string) (probe.Route, error) {
			if destination == "192.168.9.9" {
				return probe.Route{}, errors.New("network is unreachable")
			}
			return probe.Route{Gateway: "10.0.0.1", Device: "eth0"}, nil
		},
	}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Contains(t, res.Detail, "192.168.9.9")
	assert.Contains(t, res.Detail, "network is unreachable")
}
