// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/config/wizard"
	"github.com/cephup/cephup/internal/platform/multipass"
	"github.com/cephup/cephup/internal/provisioning"
	"github.com/cephup/cephup/internal/provisioning/cluster"
	"github.com/cephup/cephup/internal/provisioning/compute"
	"github.com/cephup/cephup/internal/provisioning/destroy"
	"github.com/cephup/cephup/internal/provisioning/share"
	"github.com/cephup/cephup/internal/ui/tui"
	"github.com/cephup/cephup/internal/util/prerequisites"
)

// DeployOptions carries the deploy command's flag values. Changed
// records which sizing flags were given explicitly; only those override
// a topology file.
type DeployOptions struct {
	Nodes      int
	BaseName   string
	CPUs       int
	Memory     string
	Disk       string
	Image      string
	WithClient bool

	UseDefaults bool
	Plain       bool
	Debug       bool
	ConfigPath  string

	Changed map[string]bool
}

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	// newCloudClient creates the Multipass client.
	newCloudClient = func(timeouts *config.Timeouts) multipass.Manager {
		return multipass.NewClient(timeouts)
	}

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = func() error {
		return prerequisites.Check(prerequisites.DefaultTools()).Error()
	}

	// runWizard runs the interactive topology wizard.
	runWizard = wizard.Run

	// runDashboard wraps the deploy in the TUI dashboard.
	runDashboard = tui.RunDeploy

	// isInteractive reports whether stdout is a terminal.
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// loadConfigFile loads a topology file.
	loadConfigFile = config.LoadFile

	// writeFile writes data to a file.
	writeFile = os.WriteFile
)

// deployPhases builds the deploy pipeline.
func deployPhases() []provisioning.Phase {
	return []provisioning.Phase{
		compute.NewProvisioner(),
		cluster.NewProvisioner(),
		share.NewExporter(),
	}
}

// Deploy provisions the cluster and exports its filesystem.
//
// The workflow:
//  1. Verify Multipass is installed.
//  2. Resolve the topology from flags, an optional topology file, and
//     the wizard when running interactively without explicit sizing.
//  3. Run the compute, cluster and share phases, under the dashboard on
//     a terminal or with plain logs otherwise.
//  4. On success write cephup-access.yaml and print how to reach the
//     share; on failure delete the deployment's instances unless
//     --debug asked to keep them.
func Deploy(ctx context.Context, opts DeployOptions) error {
	if err := checkDefaultPrereqs(); err != nil {
		return err
	}

	req, err := resolveRequest(ctx, opts)
	if err != nil {
		return err
	}

	// The pipeline runs under its own cancelable context so quitting
	// the dashboard stops it the same way a SIGINT does.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cloud := newCloudClient(config.LoadTimeouts())
	pctx := newProvisioningContext(runCtx, req, cloud)
	phases := deployPhases()

	var deployErr error
	if opts.Plain || !isInteractive() {
		deployErr = provisioning.RunPhases(pctx, phases)
	} else {
		var phaseNames, nodeNames []string
		for _, p := range phases {
			phaseNames = append(phaseNames, p.Name())
		}
		for _, n := range pctx.State.Nodes() {
			nodeNames = append(nodeNames, n.Name)
		}
		deployErr = runDashboard(req.BaseName, phaseNames, nodeNames, func(obs provisioning.Observer) error {
			pctx.Observer = obs
			return provisioning.RunPhases(pctx, phases)
		})
		// The dashboard owned the observer; anything after it logs
		// plainly.
		pctx.Observer = provisioning.NewConsoleObserver(req.Debug)
	}

	if deployErr != nil {
		// Stop the pipeline goroutine before tearing anything down;
		// on a quit dashboard it is still issuing steps.
		cancel()
		pctx.State.SetStatus(provisioning.StatusFailed)
		if req.Debug {
			log.Printf("Deploy failed, keeping instances for inspection: %v", deployErr)
			return deployErr
		}
		rollback(pctx)
		return deployErr
	}

	pctx.State.SetStatus(provisioning.StatusReady)

	if err := writeAccessFile(pctx, accessFilePath); err != nil {
		log.Printf("Warning: could not write %s: %v", accessFilePath, err)
	}

	printDeploySummary(pctx)
	return nil
}

// rollback tears the partial deployment down so a failed deploy leaves
// nothing behind. It runs on a detached context: after a cancelled
// deploy the session context is already dead, and the deletes still
// have to go through.
func rollback(pctx *provisioning.Context) {
	log.Printf("Deploy failed, removing partial deployment (pass --debug to keep it)")
	if err := destroy.NewDestroyer().Provision(pctx.Detached()); err != nil {
		log.Printf("Warning: rollback incomplete: %v", err)
		return
	}
	pctx.State.RolledBack = true
}
