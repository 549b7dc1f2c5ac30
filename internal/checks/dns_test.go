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

func TestDNSCheck_Resolves(t *testing.T) {
	chk, err := New(domain.CheckSpec{
		ID:      "dns.api.example.com",
		Kind:    domain.KindDNSResolve,
		Targets: []string{"api.example.com"},
	})
	require.NoError(t, err)

	probes := probe.Set{Resolver: fakeResolver{fn: func(ctx context.Context, name string) ([]string, error) {
		return []string{"10.0.0.5"}, nil
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusPass, res.Status)
	assert.Contains(t, res.Detail, "10.0.0.5")
}

func TestDNSCheck_ExpectedAddressMismatch(t *testing.T) {
	chk, err := New(domain.CheckSpec{
		ID:       "dns.api.example.com",
		Kind:     domain.KindDNSResolve,
		Targets:  []string{"api.example.com"},
		Expected: domain.Expected{Address: "10.0.0.5"},
	})
	require.NoError(t, err)

	probes := probe.Set{Resolver: fakeResolver{fn: func(ctx context.Context, name string) ([]string, error) {
		return []string{"10.0.0.99"}, nil
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Contains(t, res.Detail, "want 10.0.0.5")
}

func TestDNSCheck_ExpectedAddressAmongAnswers(t *testing.T) {
	chk, err := New(domain.CheckSpec{
		ID:       "dns.api.example.com",
		Kind:     domain.KindDNSResolve,
		Targets:  []string{"api.example.com"},
		Expected: domain.Expected{Address: "10.0.0.5"},
	})
	require.NoError(t, err)

	probes := probe.Set{Resolver: fakeResolver{fn: func(ctx context.Context, name string) ([]string, error) {
		return []string{"10.0.0.4", "10.0.0.5"}, nil
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusPass, res.Status)
}

func TestDNSCheck_NXDomain(t *testing.T) {
	chk, err := New(domain.CheckSpec{
		ID:      "dns.missing.example.com",
		Kind:    domain.KindDNSResolve,
		Targets: []string{"missing.example.com"},
	})
	require.NoError(t, err)

	probes := probe.Set{Resolver: fakeResolver{fn: func(ctx context.Context, name string) ([]string, error) {
		return nil, errors.New("no such host")
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusFail, res.Status)
	assert.Contains(t, res.Error, "no such host")
}

func TestDNSCheck_Timeout(t *testing.T) {
	chk, err := New(domain.CheckSpec{
		ID:      "dns.slow.example.com",
		Kind:    domain.KindDNSResolve,
		Targets: []string{"slow.example.com"},
	})
	require.NoError(t, err)

	probes := probe.Set{Resolver: fakeResolver{fn: func(ctx context.Context, name string) ([]string, error) {
		return nil, timeoutErr("resolve slow.example.com")
	}}}

	res := chk.Run(context.Background(), probes)
	assert.Equal(t, domain.StatusTimeout, res.Status)
}
