package multipass

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cephup/cephup/internal/config"
)

// CLIClient implements Manager by shelling out to the multipass binary.
type CLIClient struct {
	runner   commandRunner
	timeouts *config.Timeouts
}

// NewClient creates a Multipass client with the given timeouts.
func NewClient(timeouts *config.Timeouts) *CLIClient {
	return &CLIClient{
		runner:   newExecRunner(),
		timeouts: timeouts,
	}
}

// Available reports whether the multipass daemon responds to `version`.
func (c *CLIClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, _, code, err := c.runner.run(ctx, "version")
	return err == nil && code == 0
}

// Launch creates an instance, waiting until it is booted and reachable.
// Launching an existing name succeeds without touching the instance.
func (c *CLIClient) Launch(ctx context.Context, opts LaunchOpts) error {
	existing, err := c.List(ctx)
	if err != nil {
		return err
	}
	for _, inst := range existing {
		if inst.Name == opts.Name {
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Launch)
	defer cancel()

	args := []string{
		"launch",
		"--name", opts.Name,
		"--cpus", strconv.Itoa(opts.CPUs),
		"--memory", opts.Memory,
		"--disk", opts.Disk,
		opts.Image,
	}

	_, stderr, code, err := c.runner.run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", opts.Name, err)
	}
	if code != 0 {
		return &CommandError{Args: args, ExitCode: code, Stderr: stderr}
	}
	return nil
}

// multipassList is the JSON envelope of `multipass list --format json`.
type multipassList struct {
	List []Instance `json:"list"`
}

// List returns all instances known to multipass.
func (c *CLIClient) List(ctx context.Context) ([]Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.List)
	defer cancel()

	args := []string{"list", "--format", "json"}
	stdout, stderr, code, err := c.runner.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	if code != 0 {
		return nil, &CommandError{Args: args, ExitCode: code, Stderr: stderr}
	}

	var parsed multipassList
	if err := json.Unmarshal([]byte(stdout), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse instance list: %w", err)
	}
	return parsed.List, nil
}

// InstancesByPrefix returns the instances whose names start with prefix.
func (c *CLIClient) InstancesByPrefix(ctx context.Context, prefix string) ([]Instance, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var matched []Instance
	for _, inst := range all {
		if strings.HasPrefix(inst.Name, prefix) {
			matched = append(matched, inst)
		}
	}
	return matched, nil
}

// InstanceIP returns the first IPv4 address of the named instance.
func (c *CLIClient) InstanceIP(ctx context.Context, name string) (string, error) {
	all, err := c.List(ctx)
	if err != nil {
		return "", err
	}

	for _, inst := range all {
		if inst.Name != name {
			continue
		}
		if len(inst.IPv4) == 0 {
			return "", fmt.Errorf("instance %s has no IPv4 address yet", name)
		}
		return inst.IPv4[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrInstanceNotFound, name)
}

// Delete removes and purges an instance. Absent instances are a no-op.
func (c *CLIClient) Delete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()

	args := []string{"delete", "--purge", name}
	_, stderr, code, err := c.runner.run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	if code != 0 {
		if notFoundStderr(stderr) {
			return nil
		}
		return &CommandError{Args: args, ExitCode: code, Stderr: stderr}
	}
	return nil
}

// Exec runs a command inside the named instance. The guest exit code is
// reported in the result; a non-nil error means the command never ran
// (unreachable instance, daemon failure, timeout).
func (c *CLIClient) Exec(ctx context.Context, name string, argv ...string) (ExecResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Exec)
	defer cancel()

	args := append([]string{"exec", name, "--"}, argv...)
	stdout, stderr, code, err := c.runner.run(ctx, args...)
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to exec in %s: %w", name, err)
	}
	if code != 0 && notFoundStderr(stderr) {
		return ExecResult{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, name)
	}

	return ExecResult{ExitCode: code, Stdout: stdout, Stderr: stderr}, nil
}
