package checks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clusterops/preflight/internal/domain"
	"clusterops/preflight/internal/probe"
)

var (
	chronyOffsetRegexp = regexp.MustCompile(`(?m)^System time\s*:\s*([0-9.]+) seconds (fast|slow)`)
	chronyLeapRegexp   = regexp.MustCompile(`(?m)^Leap status\s*:\s*(.+)$`)
)

// NTPCheck asks chrony on every node whether the clock is synchronized
// and within the allowed offset.
type NTPCheck struct {
	spec domain.CheckSpec
}

func (c *NTPCheck) ID() string             { return c.spec.ID }
func (c *NTPCheck) Kind() domain.CheckKind { return c.spec.Kind }

func (c *NTPCheck) Run(ctx context.Context, probes probe.Set) domain.CheckResult {
	start := time.Now()
	maxOffset := c.spec.Expected.MaxClockOffset
	if maxOffset <= 0 {
		maxOffset = 500 * time.Millisecond
	}

	observed := make(map[string]any, len(c.spec.Targets))
	var problems []string
	for _, node := range c.spec.Targets {
		out, err := probes.Remote.Run(ctx, node, "chronyc tracking")
		if err != nil && expired(ctx) {
			res := result(c.spec, start, domain.StatusTimeout)
			res.Error = errText(err)
			res.Detail = fmt.Sprintf("gave up before querying all nodes (%s)", node)
			res.Observed = observed
			return res
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", node, err))
			continue
		}

		offset, synced, err := parseChronyTracking(out)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", node, err))
			continue
		}
		observed[node] = map[string]any{"offset_ms": float64(offset.Microseconds()) / 1000.0, "synced": synced}
		if !synced {
			problems = append(problems, fmt.Sprintf("%s: clock not synchronized", node))
			continue
		}
		if offset > maxOffset {
			problems = append(problems, fmt.Sprintf("%s: offset %v exceeds %v", node, offset, maxOffset))
		}
	}

	res := result(c.spec, start, domain.StatusPass)
	res.Observed = observed
	if len(problems) > 0 {
		res.Status = domain.StatusFail
		res.Detail = strings.Join(problems, "; ")
		return res
	}
	res.Detail = fmt.Sprintf("all %d nodes synchronized within %v", len(c.spec.Targets), maxOffset)
	return res
}

// parseChronyTracking extracts the system time offset and leap status
// from chronyc tracking output.
func parseChronyTracking(output string) (time.Duration, bool, error) {
	offsetMatch := chronyOffsetRegexp.FindStringSubmatch(output)
	if offsetMatch == nil {
		return 0, false, fmt.Errorf("no system time line in chronyc output")
	}
	seconds, err := strconv.ParseFloat(offsetMatch[1], 64)
	if err != nil {
		return 0, false, fmt.Errorf("bad offset %q: %w", offsetMatch[1], err)
	}
	offset := time.Duration(seconds * float64(time.Second))

	synced := false
	if leap := chronyLeapRegexp.FindStringSubmatch(output); leap != nil {
		synced = strings.TrimSpace(leap[1]) == "Normal"
	}
	return offset, synced, nil
}
