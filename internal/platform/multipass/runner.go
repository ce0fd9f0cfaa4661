package multipass

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// commandRunner is the seam between the client and the multipass binary.
// Tests substitute it to avoid shelling out.
type commandRunner interface {
	// run executes the binary with args and returns stdout, stderr and
	// the process exit code. err is non-nil only when the process could
	// not be run to completion (not found, killed, context expired).
	run(ctx context.Context, args ...string) (stdout, stderr string, exitCode int, err error)
}

// execRunner runs the real multipass binary.
type execRunner struct {
	binary string
}

func newExecRunner() *execRunner {
	return &execRunner{binary: "multipass"}
}

func (r *execRunner) run(ctx context.Context, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	stdout, stderr := outBuf.String(), errBuf.String()

	if err == nil {
		return stdout, stderr, 0, nil
	}

	// Context expiry looks like a killed process; report it as a
	// transport failure so callers treat it as unreachable, not as an
	// application exit code.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout, stderr, -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout, stderr, exitErr.ExitCode(), nil
	}

	return stdout, stderr, -1, err
}
