// Package exitcode defines the process exit convention: zero for a
// fully passing run, with failed checks kept distinct from setup or
// runtime faults so CI can tell them apart.
package exitcode

import "clusterops/preflight/internal/domain"

const (
	OK           = 0
	ChecksFailed = 1
	ConfigError  = 2
	RuntimeError = 3
)

func FromReport(rep domain.Report) int {
	if rep.Passed() {
		return OK
	}
	return ChecksFailed
}
