package cluster

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/provisioning"
)

// mdsActivePattern matches a filesystem status line with at least one
// active metadata server, e.g. "cephfs:1 {0=ceph-node-1=up:active}".
var mdsActivePattern = regexp.MustCompile(config.CephFSName + `:\d+.*up:active`)

const mdsPollInterval = 5 * time.Second

// ensureFilesystem creates the metadata and data pools and the CephFS
// filesystem on the primary, then waits for a metadata server to report
// active. Every step probes first so a re-run is a no-op.
func (p *Provisioner) ensureFilesystem(ctx *provisioning.Context) error {
	primary := ctx.State.Primary().Name

	pools, err := p.execPrimary(ctx, "sudo", "ceph", "osd", "pool", "ls")
	if err != nil {
		return provisioning.E(provisioning.KindBootstrapFailed, primary,
			fmt.Errorf("listing pools: %w", err))
	}
	existing := map[string]bool{}
	for _, name := range strings.Fields(pools) {
		existing[name] = true
	}

	for name, pgs := range map[string]string{
		config.CephPoolMeta: config.CephPoolMetaPGs,
		config.CephPoolData: config.CephPoolDataPGs,
	} {
		if existing[name] {
			provisioning.LogResourceExists(ctx.Observer, phase, "pool "+name)
			continue
		}
		if _, err := p.execPrimary(ctx, "sudo", "ceph", "osd", "pool", "create", name, pgs); err != nil {
			return provisioning.E(provisioning.KindBootstrapFailed, primary,
				fmt.Errorf("creating pool %s: %w", name, err))
		}
		ctx.Observer.Printf("[%s] created pool %s", phase, name)
	}

	fsList, err := p.execPrimary(ctx, "sudo", "ceph", "fs", "ls")
	if err != nil {
		return provisioning.E(provisioning.KindBootstrapFailed, primary,
			fmt.Errorf("listing filesystems: %w", err))
	}
	if strings.Contains(fsList, "name: "+config.CephFSName) {
		provisioning.LogResourceExists(ctx.Observer, phase, "filesystem "+config.CephFSName)
	} else {
		_, err := p.execPrimary(ctx, "sudo", "ceph", "fs", "new", config.CephFSName,
			config.CephPoolMeta, config.CephPoolData)
		if err != nil {
			return provisioning.E(provisioning.KindBootstrapFailed, primary,
				fmt.Errorf("creating filesystem: %w", err))
		}
		ctx.Observer.Printf("[%s] created filesystem %s", phase, config.CephFSName)
	}

	return p.waitMDSActive(ctx)
}

// waitMDSActive polls the metadata server status on the primary until an
// active daemon appears or the deadline passes. The filesystem is not
// mountable before that.
func (p *Provisioner) waitMDSActive(ctx *provisioning.Context) error {
	primary := ctx.State.Primary().Name
	deadline := time.Now().Add(ctx.Timeouts.MDSActive)

	for {
		out, err := ctx.Exec(primary, "sudo", "ceph", "mds", "stat")
		if err == nil && mdsActivePattern.MatchString(out) {
			ctx.Observer.Printf("[%s] metadata server active", phase)
			return nil
		}

		if time.Now().After(deadline) {
			return provisioning.E(provisioning.KindBootstrapFailed, primary,
				fmt.Errorf("no active metadata server within %s", ctx.Timeouts.MDSActive))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mdsPollInterval):
		}
	}
}

// mountMembers mounts the filesystem on every member node over
// ceph-fuse. Mount failures degrade the node, not the deploy: the share
// export only needs the primary's mount, and that is verified again by
// the exporter.
func (p *Provisioner) mountMembers(ctx *provisioning.Context) {
	primary := ctx.State.Primary().Name

	for _, node := range ctx.State.Members() {
		if err := p.mountNode(ctx, node.Name, node.Name == primary); err != nil {
			ctx.Observer.Printf("[%s] warning: mounting %s on %s: %v",
				phase, ctx.Creds.MountPoint, node.Name, err)
		}
	}
}

func (p *Provisioner) mountNode(ctx *provisioning.Context, name string, isPrimary bool) error {
	mounted, err := ctx.ExecOK(name, "sh", "-c", "mount | grep -q "+ctx.Creds.MountPoint)
	if err != nil {
		return err
	}
	if mounted {
		provisioning.LogResourceExists(ctx.Observer, phase, "mount on "+name)
		return nil
	}

	if _, err := ctx.Exec(name, "sudo", "mkdir", "-p", ctx.Creds.MountPoint); err != nil {
		return err
	}

	// The bootstrapping node keeps the admin keyring under its client
	// name; joined nodes get a plain ceph.keyring.
	keyring := "/var/snap/microceph/current/conf/ceph.keyring"
	if isPrimary {
		keyring = "/var/snap/microceph/current/conf/ceph.client.admin.keyring"
	}

	_, err = ctx.Exec(name, "sudo", "ceph-fuse",
		"-n", "client.admin",
		"--keyring", keyring,
		"--conf", "/var/snap/microceph/current/conf/ceph.conf",
		ctx.Creds.MountPoint)
	if err != nil {
		return err
	}
	ctx.Observer.Printf("[%s] mounted %s on %s", phase, ctx.Creds.MountPoint, name)
	return nil
}
