package checks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// MTUCheck reads the MTU of every node's cluster interface and
// compares each against the expected value. Mismatches are reported
// per node rather than collapsed into one failure.
type MTUCheck struct {
	spec domain.CheckSpec
}

func (c *MTUCheck) ID() string             { return c.spec.ID }
func (c *MTUCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *MTUCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	want := c.spec.Expected.MTU
	iface := c.spec.Expected.Interface
	if iface == "" {
		iface = "eth0"
	}
	command := fmt.Sprintf("cat /sys/class/net/%s/mtu", iface)

	observed := make(map[string]any, len(c.spec.Targets))
	var mismatches, failures []string
	for _, node := range c.spec.Targets {
		out, err := probes.Remote.Run(ctx, node, command)
		if err != nil && expired(ctx) {
			res := result(c.spec, start, domain.StatusTimeout)
			res.Error = errText(err)
			res.Detail = fmt.Sprintf("gave up before querying all nodes (%s)", node)
			res.Observed = observed
			return res
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", node, err))
			continue
		}
		mtu, err := strconv.Atoi(strings.TrimSpace(out))
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: unparseable mtu %q", node, out))
			continue
		}
		observed[node] = mtu
		if mtu != want {
			mismatches = append(mismatches, fmt.Sprintf("%s: mtu %d, want %d", node, mtu, want))
		}
	}

	res := result(c.spec, start, domain.StatusPass)
	res.Observed = observed
	switch {
	case len(failures) > 0:
		res.Status = domain.StatusFail
		res.Detail = strings.Join(append(mismatches, failures...), "; ")
	case len(mismatches) > 0:
		res.Status = domain.StatusFail
		res.Detail = strings.Join(mismatches, "; ")
	default:
		res.Detail = fmt.Sprintf("all %d nodes report mtu %d on %s", len(c.spec.Targets), want, iface)
	}
	return res
}
