package multipass

import "context"

// LaunchOpts holds all parameters for launching a Multipass instance.
type LaunchOpts struct {
	Name   string
	CPUs   int
	Memory string
	Disk   string
	Image  string
}

// Instance describes one Multipass instance as reported by
// `multipass list`.
type Instance struct {
	Name    string   `json:"name"`
	State   string   `json:"state"`
	IPv4    []string `json:"ipv4"`
	Release string   `json:"release"`
}

// ExecResult carries the outcome of one in-guest command.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// InstanceProvisioner defines the interface for instance lifecycle operations.
type InstanceProvisioner interface {
	// Launch creates a new instance. Launching a name that already
	// exists is not an error; the existing instance is reused.
	Launch(ctx context.Context, opts LaunchOpts) error

	// Delete removes an instance and purges it. Deleting an absent
	// instance is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all known instances.
	List(ctx context.Context) ([]Instance, error)

	// InstancesByPrefix returns the instances whose names start with
	// prefix, used to reconstruct a deployment for teardown.
	InstancesByPrefix(ctx context.Context, prefix string) ([]Instance, error)

	// InstanceIP returns the first IPv4 address of a running instance.
	InstanceIP(ctx context.Context, name string) (string, error)
}

// GuestExecutor defines the interface for running commands inside instances.
type GuestExecutor interface {
	// Exec runs a command inside the named instance. A non-zero guest
	// exit code is reported in the result with a nil error; a non-nil
	// error means the command never ran to completion (instance
	// unreachable, multipass failure, timeout).
	Exec(ctx context.Context, name string, argv ...string) (ExecResult, error)
}

// Manager combines every Multipass operation the orchestrator needs.
type Manager interface {
	InstanceProvisioner
	GuestExecutor

	// Available reports whether the multipass daemon responds.
	Available(ctx context.Context) bool
}
