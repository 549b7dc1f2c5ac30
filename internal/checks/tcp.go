package checks

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// TCPCheck verifies a single host:port endpoint accepts connections.
type TCPCheck struct {
	spec domain.CheckSpec
}

func (c *TCPCheck) ID() string             { return c.spec.ID }
func (c *TCPCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *TCPCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	target := c.spec.Target()

	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		res := result(c.spec, start, domain.StatusError)
		res.Error = fmt.Sprintf("target %q is not host:port: %v", target, err)
		return res
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		res := result(c.spec, start, domain.StatusError)
		res.Error = fmt.Sprintf("target %q has a non-numeric port: %v", target, err)
		return res
	}

	err = probes.Dialer.DialPort(ctx, host, port)
	res := result(c.spec, start, outcome(err))
	res.Error = errText(err)
	if err != nil {
		res.Detail = fmt.Sprintf("%s not accepting connections", target)
		return res
	}
	res.Detail = fmt.Sprintf("%s accepting connections", target)
	return res
}
