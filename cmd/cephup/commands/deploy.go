package commands

import (
	"github.com/spf13/cobra"

	"github.com/cephup/cephup/cmd/cephup/handlers"
)

// Deploy returns the deploy command.
//
// The deploy command provisions the requested number of Multipass VMs,
// forms a MicroCeph cluster across them, creates a CephFS filesystem
// and exports it as a Samba share from the primary node.
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a MicroCeph cluster and export its filesystem",
		Long: `Deploy provisions local VMs, forms a MicroCeph storage cluster across
them and exports the cluster filesystem as a password-protected Samba
share reachable from the host network.

Without flags on an interactive terminal, a wizard asks for the
topology. Every step is idempotent: re-running deploy against partial
state completes it instead of duplicating resources.

Examples:
  # Interactive wizard
  cephup deploy

  # The documented 3-node default, no questions asked
  cephup deploy --default

  # Explicit topology with a CIFS client machine
  cephup deploy --nodes 3 --ram 4G --with-client

On failure the partially-created VMs are deleted; pass --debug to keep
them for inspection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Changed = map[string]bool{}
			for _, name := range []string{"nodes", "base-name", "cpus", "ram", "disk", "image"} {
				opts.Changed[name] = cmd.Flags().Changed(name)
			}
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Nodes, "nodes", "n", 3, "Number of cluster nodes")
	cmd.Flags().StringVar(&opts.BaseName, "base-name", "ceph-node", "Instance base name (<base>-1 .. <base>-N)")
	cmd.Flags().IntVar(&opts.CPUs, "cpus", 2, "CPUs per node")
	cmd.Flags().StringVar(&opts.Memory, "ram", "2G", "RAM per node")
	cmd.Flags().StringVar(&opts.Disk, "disk", "10G", "Disk per node")
	cmd.Flags().StringVar(&opts.Image, "image", "22.04", "Ubuntu image for every instance")
	cmd.Flags().BoolVar(&opts.WithClient, "with-client", false, "Launch an extra VM that mounts the share over CIFS")
	cmd.Flags().BoolVar(&opts.UseDefaults, "default", false, "Accept the default topology without asking")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Plain log output instead of the dashboard")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Verbose output; keep partial state on failure")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a topology file (default: cephup.yaml if present)")

	return cmd
}
