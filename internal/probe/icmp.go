package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-ping/ping"
)

// ICMPPinger sends real ICMP echo requests using go-ping.
type ICMPPinger struct {
	Count      int
	Privileged bool
}

func NewICMPPinger(count int, privileged bool) *ICMPPinger {
	if count <= 0 {
		count = 3
	}
	return &ICMPPinger{Count: count, Privileged: privileged}
}

func (p *ICMPPinger) Ping(ctx context.Context, host string) (PingResult, error) {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return PingResult{}, fmt.Errorf("resolve %s: %w", host, err)
	}
	pinger.Count = p.Count
	pinger.SetPrivileged(p.Privileged)
	if deadline, ok := ctx.Deadline(); ok {
		pinger.Timeout = time.Until(deadline)
	}

	// go-ping has no context support; stop the pinger when the
	// caller cancels so the run is not held hostage.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()

	if err := pinger.Run(); err != nil {
		return PingResult{}, fmt.Errorf("ping %s: %w", host, err)
	}

	stats := pinger.Statistics()
	res := PingResult{
		IP:   stats.IPAddr.String(),
		RTT:  stats.AvgRtt,
		Sent: stats.PacketsSent,
		Recv: stats.PacketsRecv,
	}
	if stats.PacketsRecv == 0 {
		if ctx.Err() != nil {
			return res, fmt.Errorf("ping %s: %w", host, ErrTimeout)
		}
		return res, fmt.Errorf("ping %s: no replies for %d packets", host, stats.PacketsSent)
	}
	return res, nil
}
