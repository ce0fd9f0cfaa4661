package share

import (
	"fmt"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/platform/multipass"
	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/util/naming"
	"github.com/cephup/cephup/internal/util/retry"
)

// attachClient launches the client machine and mounts the share on it
// over CIFS. Errors here carry KindMountFailed; the caller treats them
// as a degradation.
func (e *Exporter) attachClient(ctx *provisioning.Context, primaryAddress string) error {
	req := ctx.Request()
	name := naming.Client(req.BaseName)
	node := ctx.State.AddClient(name)

	fail := func(err error) error {
		failure := provisioning.E(provisioning.KindMountFailed, name, err)
		ctx.State.FailNode(name, failure)
		return failure
	}

	err := ctx.Cloud.Launch(ctx, multipass.LaunchOpts{
		Name:   name,
		CPUs:   config.ClientCPUs,
		Memory: config.ClientMemory,
		Disk:   config.ClientDisk,
		Image:  req.Image,
	})
	if err != nil {
		return fail(fmt.Errorf("launching client: %w", err))
	}
	ctx.State.SetNodeState(name, provisioning.StateAgentReady)
	provisioning.LogNodeState(ctx.Observer, phase, name, provisioning.StateAgentReady)

	if err := ctx.PinStaticAddress(name); err != nil {
		return fail(err)
	}

	installed, err := ctx.ExecOK(name, "dpkg", "-s", "cifs-utils")
	if err != nil {
		return fail(err)
	}
	if !installed {
		err := retry.Do(ctx, func() error {
			_, execErr := ctx.Exec(name, "sudo", "env", "DEBIAN_FRONTEND=noninteractive",
				"apt-get", "install", "-y", "cifs-utils")
			return execErr
		},
			retry.WithMaxAttempts(ctx.Timeouts.RetryMaxAttempts),
			retry.WithDelay(ctx.Timeouts.RetryDelay))
		if err != nil {
			return fail(fmt.Errorf("installing cifs-utils: %w", err))
		}
	}

	if err := e.mountClient(ctx, node.Name, primaryAddress); err != nil {
		return fail(err)
	}

	ctx.State.SetNodeState(name, provisioning.StateConfigured)
	provisioning.LogNodeState(ctx.Observer, phase, name, provisioning.StateConfigured)
	ctx.State.RecordClientMount(ctx.Creds.MountPoint)
	return nil
}

func (e *Exporter) mountClient(ctx *provisioning.Context, name, primaryAddress string) error {
	mounted, err := ctx.ExecOK(name, "findmnt", ctx.Creds.MountPoint)
	if err != nil {
		return err
	}
	if mounted {
		provisioning.LogResourceExists(ctx.Observer, phase, "client mount")
		return nil
	}

	if _, err := ctx.Exec(name, "sudo", "mkdir", "-p", ctx.Creds.MountPoint); err != nil {
		return err
	}

	source := fmt.Sprintf("//%s/%s", primaryAddress, ctx.Creds.ShareName)
	options := fmt.Sprintf("username=%s,password=%s,rw", ctx.Creds.Username, ctx.Creds.Password)
	_, err = ctx.Exec(name, "sudo", "mount", "-t", "cifs", source, ctx.Creds.MountPoint, "-o", options)
	if err != nil {
		return fmt.Errorf("mounting %s: %w", source, err)
	}

	ctx.Observer.Printf("[%s] client mounted %s at %s", phase, source, ctx.Creds.MountPoint)
	return nil
}
