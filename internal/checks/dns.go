package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// DNSCheck resolves a cluster name and, when an expected address is
// configured, verifies the answer contains it.
type DNSCheck struct {
	spec domain.CheckSpec
}

func (c *DNSCheck) ID() string             { return c.spec.ID }
func (c *DNSCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *DNSCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	name := c.spec.Target()

	addrs, err := probes.Resolver.Resolve(ctx, name)
	res := result(c.spec, start, outcome(err))
	res.Error = errText(err)
	if err != nil {
		res.Detail = fmt.Sprintf("%s did not resolve", name)
		return res
	}

	res.Observed = map[string]any{"addresses": addrs}

	if want := c.spec.Expected.Address; want != "" && !contains(addrs, want) {
		res.Status = domain.StatusFail
		res.Detail = fmt.Sprintf("%s resolved to %s, want %s", name, strings.Join(addrs, ", "), want)
		return res
	}

	res.Detail = fmt.Sprintf("%s resolved to %s", name, strings.Join(addrs, ", "))
	return res
}

func contains(addrs []string, want string) bool {
	for _, a := range addrs {
		if a == want {
			return true
		}
	}
	return false
}
