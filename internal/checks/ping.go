package checks

import (
	"context"
	"fmt"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// PingCheck verifies ICMP reachability of a single node or VIP.
type PingCheck struct {
	spec domain.CheckSpec
}

func (c *PingCheck) ID() string             { return c.spec.ID }
func (c *PingCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *PingCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	target := c.spec.Target()

	pr, err := probes.Pinger.Ping(ctx, target)
	res := result(c.spec, start, outcome(err))
	res.Error = errText(err)
	if err != nil {
		res.Detail = fmt.Sprintf("%s unreachable", target)
		return res
	}

	res.Detail = fmt.Sprintf("%s reachable via %s", target, pr.IP)
	res.Observed = map[string]any{
		"ip":       pr.IP,
		"rtt_ms":   float64(pr.RTT.Microseconds()) / 1000.0,
		"sent":     pr.Sent,
		"received": pr.Recv,
	}
	return res
}
