package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

var (
	routeViaRegexp = regexp.MustCompile(`via ([0-9a-fA-F:\.]+)`)
	routeDevRegexp = regexp.MustCompile(`dev (\S+)`)
)

// IPRouteInspector reads the local routing table via the ip tool.
type IPRouteInspector struct{}

func NewIPRouteInspector() *IPRouteInspector {
	return &IPRouteInspector{}
}

func (i *IPRouteInspector) Lookup(ctx context.Context, destination string) (Route, error) {
	out, err := i.run(ctx, "route", "get", destination)
	if err != nil {
		return Route{}, err
	}
	route, ok := parseRoute(out)
	if !ok {
		return Route{}, fmt.Errorf("no route to %s", destination)
	}
	return route, nil
}

func (i *IPRouteInspector) DefaultRoute(ctx context.Context) (Route, error) {
	out, err := i.run(ctx, "route", "show", "default")
	if err != nil {
		return Route{}, err
	}
	route, ok := parseRoute(out)
	if !ok {
		return Route{}, errors.New("no default route configured")
	}
	return route, nil
}

func (i *IPRouteInspector) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "ip", args...)
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("ip %s: %w", strings.Join(args, " "), ErrTimeout)
	}
	if err != nil {
		return out, fmt.Errorf("ip %s: %w: %s", strings.Join(args, " "), err, out)
	}
	return out, nil
}

func parseRoute(output string) (Route, bool) {
	dev := routeDevRegexp.FindStringSubmatch(output)
	if dev == nil {
		return Route{}, false
	}
	route := Route{Device: dev[1]}
	if via := routeViaRegexp.FindStringSubmatch(output); via != nil {
		route.Gateway = via[1]
	}
	return route, true
}
