package cluster

import (
	"fmt"
	"strings"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/provisioning"
)

// setupOSDs attaches a loop-file OSD to every node that made it into the
// cluster. A node whose disk listing already shows an OSD is skipped, so
// re-runs never stack extra disks.
func (p *Provisioner) setupOSDs(ctx *provisioning.Context) error {
	for _, node := range ctx.State.Members() {
		has, err := p.hasOSD(ctx, node.Name)
		if err != nil {
			return provisioning.E(provisioning.KindBootstrapFailed, node.Name,
				fmt.Errorf("checking disks: %w", err))
		}
		if has {
			provisioning.LogResourceExists(ctx.Observer, phase, "OSD on "+node.Name)
			continue
		}
		if _, err := ctx.Exec(node.Name, "sudo", "microceph", "disk", "add", config.OSDDiskSpec); err != nil {
			return provisioning.E(provisioning.KindBootstrapFailed, node.Name,
				fmt.Errorf("adding OSD disk: %w", err))
		}
		ctx.Observer.Printf("[%s] attached OSD disk to %s", phase, node.Name)
	}
	return nil
}

// hasOSD reports whether the node's disk listing contains a row bound to
// this node. The listing is a box-drawn table with the owning node in
// the LOCATION column.
func (p *Provisioner) hasOSD(ctx *provisioning.Context, name string) (bool, error) {
	out, err := ctx.Exec(name, "sudo", "microceph", "disk", "list")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || strings.Contains(strings.ToUpper(line), "LOCATION") {
			continue
		}
		if strings.Contains(line, name) {
			return true, nil
		}
	}
	return false, nil
}
