// Package destroy tears down every machine belonging to a deployment.
package destroy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/util/naming"
)

const phase = "destroy"

// Destroyer removes a deployment's machines by enumerating live
// instances under the deployment's name prefix. It never trusts local
// state about what exists; the platform is the source of truth.
type Destroyer struct{}

// NewDestroyer creates a new destroyer.
func NewDestroyer() *Destroyer {
	return &Destroyer{}
}

// Name implements the provisioning.Phase interface.
func (d *Destroyer) Name() string {
	return phase
}

// Provision deletes every instance whose name carries the deployment
// prefix. The client machine shares the prefix, so the enumeration
// covers it too. Deletion is best effort: every instance is attempted
// regardless of earlier failures, and any survivors are reported
// together.
func (d *Destroyer) Provision(ctx *provisioning.Context) error {
	prefix := naming.Prefix(ctx.Request().BaseName)

	instances, err := ctx.Cloud.InstancesByPrefix(ctx, prefix)
	if err != nil {
		return provisioning.E(provisioning.KindDestroyPartialFailure, "",
			fmt.Errorf("listing instances: %w", err))
	}
	if len(instances) == 0 {
		ctx.Observer.Printf("[%s] nothing to delete under %s*", phase, prefix)
		ctx.State.SetStatus(provisioning.StatusDestroyed)
		return nil
	}

	var survivors []string
	for _, inst := range instances {
		if err := ctx.Cloud.Delete(ctx, inst.Name); err != nil {
			ctx.Observer.Printf("[%s] failed to delete %s: %v", phase, inst.Name, err)
			ctx.State.FailNode(inst.Name, err)
			survivors = append(survivors, inst.Name)
			continue
		}
		ctx.Observer.Printf("[%s] deleted %s", phase, inst.Name)
	}

	if len(survivors) > 0 {
		sort.Strings(survivors)
		return provisioning.E(provisioning.KindDestroyPartialFailure, "",
			fmt.Errorf("still present: %s", strings.Join(survivors, ", ")))
	}

	ctx.State.SetStatus(provisioning.StatusDestroyed)
	return nil
}
