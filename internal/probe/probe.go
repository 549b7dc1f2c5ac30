// Package probe wraps the low-level network and system operations the
// checks are built from. Every probe performs exactly one operation,
// honors the caller's context, and never retries; retry policy belongs
// to the runner.
package probe

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrTimeout marks an operation that did not complete within the
// caller's deadline. Checks translate it into a timeout result rather
// than a failure.
var ErrTimeout = errors.New("probe timed out")

// IsTimeout reports whether err represents a probe-level timeout,
// whatever layer produced it.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// PingResult is the outcome of a successful ICMP echo exchange.
type PingResult struct {
	IP   string
	RTT  time.Duration
	Sent int
	Recv int
}

// Pinger sends ICMP echo requests to a host.
type Pinger interface {
	Ping(ctx context.Context, host string) (PingResult, error)
}

// Resolver performs a DNS lookup for a name.
type Resolver interface {
	Resolve(ctx context.Context, name string) ([]string, error)
}

// Dialer opens and immediately closes a TCP connection.
type Dialer interface {
	DialPort(ctx context.Context, host string, port int) error
}

// HTTPGetter performs a GET against a URL and returns the status code.
type HTTPGetter interface {
	Get(ctx context.Context, url string) (int, error)
}

// RemoteRunner executes a command on a cluster node and returns the
// combined output. The transport is an implementation detail; the
// default runner shells out to ssh.
type RemoteRunner interface {
	Run(ctx context.Context, host, command string) (string, error)
}

// Route describes one routing table entry.
type Route struct {
	Gateway string
	Device  string
}

// RouteInspector reads the local routing table.
type RouteInspector interface {
	Lookup(ctx context.Context, destination string) (Route, error)
	DefaultRoute(ctx context.Context) (Route, error)
}

// Set bundles the probe capabilities a run needs. Checks pick the
// probes relevant to their kind and ignore the rest.
type Set struct {
	Pinger   Pinger
	Resolver Resolver
	Dialer   Dialer
	HTTP     HTTPGetter
	Remote   RemoteRunner
	Routes   RouteInspector
}
