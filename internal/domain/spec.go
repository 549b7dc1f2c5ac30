package domain

import "time"

// CheckKind identifies the probe strategy a check uses.
type CheckKind string

const (
	KindPing       CheckKind = "ping"
	KindDNSResolve CheckKind = "dns_resolve"
	KindTCPConnect CheckKind = "tcp_connect"
	KindHTTPGet    CheckKind = "http_get"
	KindPortOpen   CheckKind = "port_open"
	KindMTUQuery   CheckKind = "mtu_query"
	KindNTPSync    CheckKind = "ntp_sync"
	KindRouteCheck CheckKind = "route_check"
)

// Expected carries the optional expectations a check compares against.
// Zero values mean "no expectation" for that field.
type Expected struct {
	Address        string        `json:"address,omitempty"`
	Ports          []int         `json:"ports,omitempty"`
	MTU            int           `json:"mtu,omitempty"`
	Interface      string        `json:"interface,omitempty"`
	MaxClockOffset time.Duration `json:"max_clock_offset,omitempty"`
}

// CheckSpec is the declarative description of one validation.
// Specs are built from configuration before a run starts and are not
// mutated afterwards.
type CheckSpec struct {
	ID       string    `json:"id"`
	Kind     CheckKind `json:"kind"`
	Targets  []string  `json:"targets"`
	Expected Expected  `json:"expected,omitempty"`

	// Timeout overrides the runner's per-check default when non-zero.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Target returns the primary target of the spec, or "" for an empty spec.
func (s CheckSpec) Target() string {
	if len(s.Targets) == 0 {
		return ""
	}
	return s.Targets[0]
}
