// Package registry holds the ordered set of check specs for a run.
// The registry is built once from configuration and is read-only while
// the runner executes it.
package registry

import (
	"errors"
	"fmt"

	"clusterops/preflight/internal/config"
	"clusterops/preflight/internal/domain"
)

var (
	ErrDuplicateCheck = errors.New("duplicate check identifier")
	ErrEmptyID        = errors.New("check identifier is empty")
	ErrNoNodes        = errors.New("no nodes configured")
)

type Registry struct {
	specs []domain.CheckSpec
	index map[string]int
}

func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a spec, preserving insertion order. A duplicate or
// empty identifier leaves the registry untouched.
func (r *Registry) Register(spec domain.CheckSpec) error {
	if spec.ID == "" {
		return ErrEmptyID
	}
	if _, exists := r.index[spec.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCheck, spec.ID)
	}
	r.index[spec.ID] = len(r.specs)
	r.specs = append(r.specs, spec)
	return nil
}

// All returns the registered specs in registration order. The slice is
// a copy; callers cannot mutate the registry through it.
func (r *Registry) All() []domain.CheckSpec {
	out := make([]domain.CheckSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

func (r *Registry) Len() int {
	return len(r.specs)
}

// BuildFromConfig assembles the standard pre-deployment check set:
// node reachability, DNS names, VIPs, API and ingress endpoints,
// required ports, MTU consistency, time sync and routing.
func BuildFromConfig(cfg *config.Config) (*Registry, error) {
	pc := cfg.Precheck
	if len(pc.Nodes) == 0 {
		return nil, fmt.Errorf("build registry: %w", ErrNoNodes)
	}
	reg := New()

	add := func(spec domain.CheckSpec) error {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("build registry: %w", err)
		}
		return nil
	}

	for _, node := range pc.Nodes {
		if err := add(domain.CheckSpec{
			ID:      "node-reachability." + node,
			Kind:    domain.KindPing,
			Targets: []string{node},
		}); err != nil {
			return nil, err
		}
	}

	for _, name := range pc.DNSNames {
		if err := add(domain.CheckSpec{
			ID:      "dns." + name,
			Kind:    domain.KindDNSResolve,
			Targets: []string{name},
		}); err != nil {
			return nil, err
		}
	}

	if pc.VIPs.API != "" {
		if err := add(domain.CheckSpec{
			ID:      "vip-api",
			Kind:    domain.KindPing,
			Targets: []string{pc.VIPs.API},
		}); err != nil {
			return nil, err
		}
	}
	if pc.VIPs.Ingress != "" {
		if err := add(domain.CheckSpec{
			ID:      "vip-ingress",
			Kind:    domain.KindPing,
			Targets: []string{pc.VIPs.Ingress},
		}); err != nil {
			return nil, err
		}
	}

	if url := cfg.APIEndpoint(); url != "" {
		if err := add(domain.CheckSpec{
			ID:      "api-endpoint",
			Kind:    domain.KindHTTPGet,
			Targets: []string{url},
		}); err != nil {
			return nil, err
		}
	}
	if url := cfg.IngressEndpoint(); url != "" {
		if err := add(domain.CheckSpec{
			ID:      "ingress-endpoint",
			Kind:    domain.KindHTTPGet,
			Targets: []string{url},
		}); err != nil {
			return nil, err
		}
	}

	if len(pc.RequiredPorts) > 0 {
		for _, node := range pc.Nodes {
			if err := add(domain.CheckSpec{
				ID:       "ports." + node,
				Kind:     domain.KindPortOpen,
				Targets:  []string{node},
				Expected: domain.Expected{Ports: pc.RequiredPorts},
			}); err != nil {
				return nil, err
			}
		}
	}

	if err := add(domain.CheckSpec{
		ID:      "mtu-consistency",
		Kind:    domain.KindMTUQuery,
		Targets: pc.Nodes,
		Expected: domain.Expected{
			MTU:       pc.ExpectedMTU,
			Interface: pc.MTUInterface,
		},
	}); err != nil {
		return nil, err
	}

	if err := add(domain.CheckSpec{
		ID:       "time-sync",
		Kind:     domain.KindNTPSync,
		Targets:  pc.Nodes,
		Expected: domain.Expected{MaxClockOffset: pc.MaxClockOffset},
	}); err != nil {
		return nil, err
	}

	routeTargets := make([]string, 0, 2)
	if pc.VIPs.API != "" {
		routeTargets = append(routeTargets, pc.VIPs.API)
	}
	if pc.VIPs.Ingress != "" {
		routeTargets = append(routeTargets, pc.VIPs.Ingress)
	}
	if len(routeTargets) == 0 {
		// No VIPs: verify the default route against the first node.
		routeTargets = pc.Nodes[:1]
	}
	if err := add(domain.CheckSpec{
		ID:      "routes",
		Kind:    domain.KindRouteCheck,
		Targets: routeTargets,
	}); err != nil {
		return nil, err
	}

	return reg, nil
}
