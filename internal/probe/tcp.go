package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// TCPDialer tests TCP reachability by opening a connection and closing
// it immediately.
type TCPDialer struct {
	dialer net.Dialer
}

func NewTCPDialer() *TCPDialer {
	return &TCPDialer{}
}

func (t *TCPDialer) DialPort(ctx context.Context, host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if IsTimeout(err) {
			return fmt.Errorf("dial %s: %w", addr, ErrTimeout)
		}
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn.Close()
}
