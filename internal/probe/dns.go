package probe

import (
	"context"
	"fmt"
	"net"
)

// NetResolver resolves names through the system resolver. A non-empty
// Server pins lookups to that DNS server instead.
type NetResolver struct {
	resolver *net.Resolver
}

func NewNetResolver(server string) *NetResolver {
	r := &net.Resolver{}
	if server != "" {
		addr := net.JoinHostPort(server, "53")
		r = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		}
	}
	return &NetResolver{resolver: r}
}

func (n *NetResolver) Resolve(ctx context.Context, name string) ([]string, error) {
	addrs, err := n.resolver.LookupHost(ctx, name)
	if err != nil {
		if IsTimeout(err) {
			return nil, fmt.Errorf("resolve %s: %w", name, ErrTimeout)
		}
		return nil, fmt.Errorf("resolve %s: %w", name, err)
	}
	return addrs, nil
}
