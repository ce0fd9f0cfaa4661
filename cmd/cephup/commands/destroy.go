package commands

import (
	"github.com/spf13/cobra"

	"github.com/cephup/cephup/cmd/cephup/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command deletes every Multipass instance belonging to a
// deployment, found by name prefix rather than recorded state, so it
// also cleans up after interrupted deploys.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete every VM belonging to a deployment",
		Long: `Destroy removes all instances whose names carry the deployment's base
name prefix, including the client machine. Instances are discovered by
asking Multipass, so partially-created deployments are torn down too.

Example:
  cephup destroy --base-name ceph-node --yes

WARNING: all data stored in the cluster is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.BaseName, "base-name", "ceph-node", "Base name of the deployment to destroy")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
