// Package compute provisions the cluster's Multipass instances.
package compute

import (
	"context"
	"fmt"

	"github.com/cephup/cephup/internal/platform/multipass"
	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/util/async"
)

const phase = "compute"

// maxConcurrentLaunches bounds parallel instance creation. Boot time
// dominates wall-clock cost, but unbounded launches starve the host.
const maxConcurrentLaunches = 3

// Provisioner creates all cluster instances and waits for each to be
// reachable through the guest agent.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision launches every cluster node in parallel with bounded
// concurrency. Nodes are independent until the bootstrap phase, so no
// ordering is imposed here. A node that cannot be created or reached is
// marked Failed; the phase fails fast so the session can roll back.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	ctx.State.SetStatus(provisioning.StatusProvisioning)
	req := ctx.Request()

	var tasks []async.Task
	for _, node := range ctx.State.ClusterNodes() {
		tasks = append(tasks, async.Task{
			Name: node.Name,
			Func: func(context.Context) error {
				if err := p.provisionNode(ctx, node.Name); err != nil {
					ctx.State.FailNode(node.Name, err)
					return err
				}
				return nil
			},
		})
	}

	ctx.Observer.Printf("[%s] Launching %d instances (%d CPUs, %s RAM, %s disk, Ubuntu %s)...",
		phase, len(tasks), req.CPUs, req.Memory, req.Disk, req.Image)

	if err := async.RunBounded(ctx, tasks, maxConcurrentLaunches); err != nil {
		return fmt.Errorf("instance provisioning failed: %w", err)
	}
	return nil
}

// provisionNode launches one instance and waits for the guest agent.
func (p *Provisioner) provisionNode(ctx *provisioning.Context, name string) error {
	req := ctx.Request()

	err := ctx.Cloud.Launch(ctx, multipass.LaunchOpts{
		Name:   name,
		CPUs:   req.CPUs,
		Memory: req.Memory,
		Disk:   req.Disk,
		Image:  req.Image,
	})
	if err != nil {
		return provisioning.E(provisioning.KindProvisioningFailed, name, err)
	}

	addr, err := ctx.Cloud.InstanceIP(ctx, name)
	if err != nil {
		return provisioning.E(provisioning.KindProvisioningFailed, name,
			fmt.Errorf("instance launched but has no address: %w", err))
	}
	ctx.State.SetNodeAddress(name, addr)

	// Probe the guest agent: a trivial command must run cleanly before
	// the node counts as ready for bootstrap.
	if _, err := ctx.Exec(name, "true"); err != nil {
		return provisioning.E(provisioning.KindProvisioningFailed, name,
			fmt.Errorf("guest agent not responding: %w", err))
	}

	// Pin the leased address. The recorded address ends up in the
	// share location and the access file, so it must survive reboots.
	if err := ctx.PinStaticAddress(name); err != nil {
		return provisioning.E(provisioning.KindProvisioningFailed, name,
			fmt.Errorf("pinning address: %w", err))
	}

	ctx.State.SetNodeState(name, provisioning.StateAgentReady)
	provisioning.LogNodeState(ctx.Observer, phase, name, provisioning.StateAgentReady)
	return nil
}
