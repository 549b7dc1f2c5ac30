package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// SSHRunner executes commands on cluster nodes by shelling out to the
// local ssh client. BatchMode keeps a missing key from turning into an
// interactive password prompt that would hang the probe.
type SSHRunner struct {
	User           string
	ConnectTimeout time.Duration
}

func NewSSHRunner(user string, connectTimeout time.Duration) *SSHRunner {
	if user == "" {
		user = "core"
	}
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	return &SSHRunner{User: user, ConnectTimeout: connectTimeout}
}

func (s *SSHRunner) Run(ctx context.Context, host, command string) (string, error) {
	args := []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=no",
		"-o", fmt.Sprintf("ConnectTimeout=%d", int(s.ConnectTimeout.Seconds())),
		fmt.Sprintf("%s@%s", s.User, host),
		command,
	}

	cmd := exec.CommandContext(ctx, "ssh", args...)
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("ssh %s: %w", host, ErrTimeout)
	}
	if err != nil {
		if out != "" {
			return out, fmt.Errorf("ssh %s: %w: %s", host, err, out)
		}
		return out, fmt.Errorf("ssh %s: %w", host, err)
	}
	return out, nil
}
