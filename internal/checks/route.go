package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// RouteCheck verifies the host has a default route and a route to
// every VIP the cluster fronts.
type RouteCheck struct {
	spec domain.CheckSpec
}

func (c *RouteCheck) ID() string             { return c.spec.ID }
func (c *RouteCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *RouteCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	observed := make(map[string]any, len(c.spec.Targets)+1)

	def, err := probes.Routes.DefaultRoute(ctx)
	if probe.IsTimeout(err) {
		res := result(c.spec, start, domain.StatusTimeout)
		res.Error = errText(err)
		return res
	}
	var problems []string
	if err != nil {
		problems = append(problems, err.Error())
	} else {
		observed["default"] = routeMap(def)
	}

	for _, dst := range c.spec.Targets {
		route, err := probes.Routes.Lookup(ctx, dst)
		if probe.IsTimeout(err) {
			res := result(c.spec, start, domain.StatusTimeout)
			res.Error = errText(err)
			res.Observed = observed
			return res
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", dst, err))
			continue
		}
		observed[dst] = routeMap(route)
	}

	res := result(c.spec, start, domain.StatusPass)
	res.Observed = observed
	if len(problems) > 0 {
		res.Status = domain.StatusFail
		res.Detail = strings.Join(problems, "; ")
		return res
	}
	res.Detail = fmt.Sprintf("default route via %s on %s, %d targets routable", def.Gateway, def.Device, len(c.spec.Targets))
	return res
}

func routeMap(r probe.Route) map[string]any {
	return map[string]any{"gateway": r.Gateway, "device": r.Device}
}
