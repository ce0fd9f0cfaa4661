// Package cluster drives provisioned instances into a quorate MicroCeph
// cluster: daemon installation, primary bootstrap, the sequential join
// loop, OSD disks and the CephFS filesystem.
package cluster

import (
	"context"
	"fmt"
	"sync"

	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/util/async"
	"github.com/cephup/cephup/internal/util/retry"
)

const phase = "cluster"

// Provisioner is the bootstrap state machine for the storage cluster.
type Provisioner struct {
	// primaryMu serializes every mutating call against the primary's
	// cluster-management interface. Token issuance and pool creation
	// are not safe to interleave.
	primaryMu sync.Mutex
}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision runs the ordered bootstrap protocol:
//
//  1. storage daemon installation on every node, in parallel, retried
//  2. primary bootstrap, exactly once
//  3. sequential join loop over the secondaries, fresh token per attempt
//  4. quorum gate
//  5. OSD disks and the CephFS pools/filesystem, all idempotent
//
// No join token is ever requested before step 2 completes.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	ctx.State.SetStatus(provisioning.StatusBootstrapping)

	if err := p.installAll(ctx); err != nil {
		return err
	}

	if err := p.bootstrapPrimary(ctx); err != nil {
		return err
	}

	p.joinSecondaries(ctx)

	req := ctx.Request()
	if members := ctx.State.MemberCount(); members < req.Quorum() {
		return provisioning.E(provisioning.KindQuorumNotReached, "",
			fmt.Errorf("%d of %d required nodes joined", members, req.Quorum()))
	}

	if err := p.setupOSDs(ctx); err != nil {
		return err
	}

	if err := p.ensureFilesystem(ctx); err != nil {
		return err
	}

	p.mountMembers(ctx)
	return nil
}

// installAll installs the MicroCeph snap on every cluster node. The
// installs are independent, so they run in parallel; each is retried
// because snap store fetches are flaky.
func (p *Provisioner) installAll(ctx *provisioning.Context) error {
	var tasks []async.Task
	for _, node := range ctx.State.ClusterNodes() {
		tasks = append(tasks, async.Task{
			Name: node.Name,
			Func: func(context.Context) error {
				if err := p.installNode(ctx, node.Name); err != nil {
					failure := provisioning.E(provisioning.KindBootstrapFailed, node.Name, err)
					ctx.State.FailNode(node.Name, failure)
					return failure
				}
				return nil
			},
		})
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return fmt.Errorf("storage daemon installation failed: %w", err)
	}
	return nil
}

func (p *Provisioner) installNode(ctx *provisioning.Context, name string) error {
	installed, err := ctx.ExecOK(name, "snap", "list", "microceph")
	if err != nil {
		return err
	}

	if installed {
		provisioning.LogResourceExists(ctx.Observer, phase, "microceph snap on "+name)
	} else {
		err := retry.Do(ctx, func() error {
			_, execErr := ctx.Exec(name, "sudo", "snap", "install", "microceph")
			if execErr != nil {
				ctx.Observer.Event(provisioning.Event{
					Type: provisioning.EventRetry, Phase: phase, Node: name,
					Message: execErr.Error(),
				})
			}
			return execErr
		},
			retry.WithMaxAttempts(ctx.Timeouts.RetryMaxAttempts),
			retry.WithDelay(ctx.Timeouts.RetryDelay))
		if err != nil {
			return err
		}
	}

	ctx.State.SetNodeState(name, provisioning.StateStorageInstalled)
	provisioning.LogNodeState(ctx.Observer, phase, name, provisioning.StateStorageInstalled)
	return nil
}

// execPrimary runs a mutating command on the primary under the
// management lock.
func (p *Provisioner) execPrimary(ctx *provisioning.Context, argv ...string) (string, error) {
	p.primaryMu.Lock()
	defer p.primaryMu.Unlock()
	return ctx.Exec(ctx.State.Primary().Name, argv...)
}

// bootstrapPrimary initializes the storage service on the primary as a
// new single-node cluster. A primary that already answers status checks
// was bootstrapped by a previous run and is left alone.
func (p *Provisioner) bootstrapPrimary(ctx *provisioning.Context) error {
	primary := ctx.State.Primary()

	already, err := ctx.ExecOK(primary.Name, "sudo", "microceph", "status")
	if err != nil {
		return provisioning.E(provisioning.KindBootstrapFailed, primary.Name, err)
	}

	if already {
		provisioning.LogResourceExists(ctx.Observer, phase, "bootstrapped cluster on "+primary.Name)
	} else if _, err := p.execPrimary(ctx, "sudo", "microceph", "cluster", "bootstrap"); err != nil {
		failure := provisioning.E(provisioning.KindBootstrapFailed, primary.Name, err)
		ctx.State.FailNode(primary.Name, failure)
		return failure
	}

	ctx.State.SetNodeState(primary.Name, provisioning.StateBootstrapped)
	provisioning.LogNodeState(ctx.Observer, phase, primary.Name, provisioning.StateBootstrapped)
	return nil
}
