package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/charmbracelet/huh"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/provisioning/destroy"
	"github.com/cephup/cephup/internal/util/naming"
)

// DestroyOptions carries the destroy command's flag values.
type DestroyOptions struct {
	BaseName string
	Yes      bool
}

// Factory function variables for destroy - can be replaced in tests.
var (
	// newDestroyer creates the teardown phase.
	newDestroyer = func() provisioning.Phase {
		return destroy.NewDestroyer()
	}

	// confirmDestroy asks the user to confirm the teardown.
	confirmDestroy = func(ctx context.Context, baseName string) (bool, error) {
		confirmed := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete every instance named %s*?", naming.Prefix(baseName))).
					Description("All data stored in the cluster is lost.").
					Value(&confirmed),
			),
		).RunWithContext(ctx)
		return confirmed, err
	}
)

// Destroy deletes every instance of the named deployment.
//
// Without --yes it asks for confirmation on an interactive terminal and
// refuses to run on a non-interactive one.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	if !config.ValidBaseName(opts.BaseName) {
		return fmt.Errorf("invalid base name %q", opts.BaseName)
	}

	if !opts.Yes {
		if !isInteractive() {
			return fmt.Errorf("refusing to destroy without --yes on a non-interactive terminal")
		}
		confirmed, err := confirmDestroy(ctx, opts.BaseName)
		if err != nil {
			return fmt.Errorf("confirmation canceled: %w", err)
		}
		if !confirmed {
			log.Printf("Destroy aborted")
			return nil
		}
	}

	req := config.DefaultRequest()
	req.BaseName = opts.BaseName

	cloud := newCloudClient(config.LoadTimeouts())
	pctx := newProvisioningContext(ctx, req, cloud)

	if err := newDestroyer().Provision(pctx); err != nil {
		return err
	}

	log.Printf("Deployment %s destroyed", opts.BaseName)
	return nil
}
