package checks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

// HTTPCheck verifies the API or ingress endpoint answers a GET. Any
// response short of a server error counts: a 403 from an unauthenticated
// API endpoint still proves the path is up.
type HTTPCheck struct {
	spec domain.CheckSpec
}

func (c *HTTPCheck) ID() string             { return c.spec.ID }
func (c *HTTPCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *HTTPCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	url := c.spec.Target()

	code, err := probes.HTTP.Get(ctx, url)
	res := result(c.spec, start, outcome(err))
	res.Error = errText(err)
	if err != nil {
		res.Detail = fmt.Sprintf("%s unreachable", url)
		return res
	}

	res.Observed = map[string]any{"status_code": code}
	if code >= http.StatusInternalServerError {
		res.Status = domain.StatusFail
		res.Detail = fmt.Sprintf("%s returned %d", url, code)
		return res
	}
	res.Detail = fmt.Sprintf("%s returned %d", url, code)
	return res
}
