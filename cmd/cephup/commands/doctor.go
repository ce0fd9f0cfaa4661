package commands

import (
	"github.com/spf13/cobra"

	"github.com/cephup/cephup/cmd/cephup/handlers"
)

// Doctor returns the command for diagnosing the local environment and
// any existing deployment.
func Doctor() *cobra.Command {
	var baseName string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local environment and deployment status",
		Long: `Doctor checks that Multipass is installed and its daemon responds, then
lists the instances of the named deployment with their states and
addresses.

Examples:
  cephup doctor
  cephup doctor --base-name my-ceph`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), baseName)
		},
	}

	cmd.Flags().StringVar(&baseName, "base-name", "ceph-node", "Base name of the deployment to inspect")

	return cmd
}
