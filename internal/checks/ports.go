package checks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// PortCheck verifies every required port on one node accepts TCP
// connections from this host. "Open" is defined as cross-node
// reachability, not local firewall policy: a port the firewall permits
// but nothing listens on is still unusable for the installer.
type PortCheck struct {
	spec domain.CheckSpec
}

func (c *PortCheck) ID() string             { return c.spec.ID }
func (c *PortCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *PortCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	node := c.spec.Target()
	required := c.spec.Expected.Ports

	var open, missing []int
	for _, port := range required {
		err := probes.Dialer.DialPort(ctx, node, port)
		if err != nil && expired(ctx) {
			// The check's own deadline fired; the remaining ports are
			// inconclusive, not closed.
			res := result(c.spec, start, domain.StatusTimeout)
			res.Error = errText(err)
			res.Detail = fmt.Sprintf("%s: gave up after %d of %d ports", node, len(open)+len(missing), len(required))
			return res
		}
		if err != nil {
			missing = append(missing, port)
			continue
		}
		open = append(open, port)
	}

	res := result(c.spec, start, domain.StatusPass)
	res.Observed = map[string]any{"open": open, "missing": missing}
	if len(missing) > 0 {
		sort.Ints(missing)
		res.Status = domain.StatusFail
		res.Detail = fmt.Sprintf("%s: missing ports %s", node, joinPorts(missing))
		return res
	}
	res.Detail = fmt.Sprintf("%s: all %d required ports open", node, len(required))
	return res
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}
