// Package checks turns declarative CheckSpecs into executable checks.
// Each check drives one or more probes against its targets and folds
// the outcomes into a single CheckResult.
package checks

import (
	"context"
	"fmt"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// Check executes one CheckSpec against a probe set.
type Check interface {
	ID() string
	Kind() domain.CheckKind
	Run(ctx context.Context, probes probe.Set) domain.CheckResult
}

// New builds the check implementation for a spec. An unknown kind or a
// spec without targets is a configuration fault, reported to the
// caller instead of surfacing mid-run.
func New(spec domain.CheckSpec) (Check, error) {
	if len(spec.Targets) == 0 {
		return nil, fmt.Errorf("check %q: no targets", spec.ID)
	}
	switch spec.Kind {
	case domain.KindPing:
		return &PingCheck{spec: spec}, nil
	case domain.KindDNSResolve:
		return &DNSCheck{spec: spec}, nil
	case domain.KindTCPConnect:
		return &TCPCheck{spec: spec}, nil
	case domain.KindHTTPGet:
		return &HTTPCheck{spec: spec}, nil
	case domain.KindPortOpen:
		return &PortCheck{spec: spec}, nil
	case domain.KindMTUQuery:
		return &MTUCheck{spec: spec}, nil
	case domain.KindNTPSync:
		return &NTPCheck{spec: spec}, nil
	case domain.KindRouteCheck:
		return &RouteCheck{spec: spec}, nil
	default:
		return nil, fmt.Errorf("check %q: unknown kind %q", spec.ID, spec.Kind)
	}
}
