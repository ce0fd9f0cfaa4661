// Package main is the entry point for the cephup CLI.
//
// cephup provisions a MicroCeph storage cluster on local Multipass
// virtual machines and exports its CephFS filesystem as a Samba network
// share, with one command to deploy and one to tear down.
//
// Commands: deploy, destroy, doctor, version.
//
// For detailed usage information, run:
//
//	cephup --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cephup/cephup/cmd/cephup/commands"
	"github.com/cephup/cephup/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Ctrl-C cancels the command context; a running deploy stops
	// issuing steps and takes its rollback path instead of dying
	// mid-provision.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failure to the documented exit code family: 2 for
// machine provisioning, 3 for cluster formation, 4 for the share layer,
// 5 for an incomplete teardown, 1 for anything else.
func exitCode(err error) int {
	switch provisioning.KindOf(err) {
	case provisioning.KindProvisioningFailed,
		provisioning.KindUnreachableNode,
		provisioning.KindExecutionFailed:
		return 2
	case provisioning.KindBootstrapFailed,
		provisioning.KindJoinFailed,
		provisioning.KindQuorumNotReached:
		return 3
	case provisioning.KindExportFailed,
		provisioning.KindMountFailed:
		return 4
	case provisioning.KindDestroyPartialFailure:
		return 5
	default:
		return 1
	}
}
