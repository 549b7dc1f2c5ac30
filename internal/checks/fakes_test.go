package checks

import (
	"context"
	"fmt"

	"clusterops/preflight/internal/probe"
)

// Scripted probe fakes: each wraps a function field so tests can
// dictate exactly the behavior they need.
type fakePinger struct {
	fn func(ctx context.Context, host string) (probe.PingResult, error)
}

func (f fakePinger) Ping(ctx context.Context, host string) (probe.PingResult, error) {
	return f.fn(ctx, host)
}

type fakeResolver struct {
	fn func(ctx context.Context, name string) ([]string, error)
}

func (f fakeResolver) Resolve(ctx context.Context, name string) ([]string, error) {
	return f.fn(ctx, name)
}

type fakeDialer struct {
	fn func(ctx context.Context, host string, port int) error
}

func (f fakeDialer) DialPort(ctx context.Context, host string, port int) error {
	return f.fn(ctx, host, port)
}

type fakeHTTP struct {
	fn func(ctx context.Context, url string) (int, error)
}

func (f fakeHTTP) Get(ctx context.Context, url string) (int, error) {
	return f.fn(ctx, url)
}

type fakeRemote struct {
	fn func(ctx context.Context, host, command string) (string, error)
}

func (f fakeRemote) Run(ctx context.Context, host, command string) (string, error) {
	return f.fn(ctx, host, command)
}

type fakeRoutes struct {
	lookup func(ctx context.Context, destination string) (probe.Route, error)
	def    func(ctx context.Context) (probe.Route, error)
}

func (f fakeRoutes) Lookup(ctx context.Context, destination string) (probe.Route, error) {
	return f.lookup(ctx, destination)
}

func (f fakeRoutes) DefaultRoute(ctx context.Context) (probe.Route, error) {
	return f.def(ctx)
}

func timeoutErr(op string) error {
	return fmt.Errorf("%s: %w", op, probe.ErrTimeout)
}
