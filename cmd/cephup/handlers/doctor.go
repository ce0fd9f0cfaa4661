package handlers

import (
	"context"
	"fmt"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/util/naming"
	"github.com/cephup/cephup/internal/util/prerequisites"
)

// Factory function variables for doctor - can be replaced in tests.
var (
	// checkTools runs the tool checks.
	checkTools = func() *prerequisites.CheckResults {
		return prerequisites.Check(prerequisites.DefaultTools())
	}
)

// Doctor reports on the local environment and on any instances of the
// named deployment.
func Doctor(ctx context.Context, baseName string) error {
	results := checkTools()

	fmt.Println(summaryTitle.Render("Environment"))
	for _, res := range results.Results {
		if res.Found {
			version := res.Version
			if version == "" {
				version = res.Path
			}
			fmt.Printf("  %s %-12s %s\n", summaryOK.Render("[OK]"), res.Tool.Name, summaryDim.Render(version))
		} else {
			fmt.Printf("  %s %-12s install: %s\n", summaryWarn.Render("[!!]"), res.Tool.Name, res.Tool.InstallURL)
		}
	}

	if err := results.Error(); err != nil {
		return err
	}

	cloud := newCloudClient(config.LoadTimeouts())
	if !cloud.Available(ctx) {
		return fmt.Errorf("multipass is installed but its daemon does not respond")
	}
	fmt.Printf("  %s %-12s %s\n", summaryOK.Render("[OK]"), "daemon", summaryDim.Render("responding"))

	instances, err := cloud.InstancesByPrefix(ctx, naming.Prefix(baseName))
	if err != nil {
		return fmt.Errorf("listing instances: %w", err)
	}

	fmt.Println()
	fmt.Println(summaryTitle.Render("Deployment " + baseName))
	if len(instances) == 0 {
		fmt.Println(summaryDim.Render("  no instances found"))
		return nil
	}
	for _, inst := range instances {
		marker := summaryOK.Render("[OK]")
		if inst.State != "Running" {
			marker = summaryWarn.Render("[!!]")
		}
		addr := "-"
		if len(inst.IPv4) > 0 {
			addr = inst.IPv4[0]
		}
		fmt.Printf("  %s %-18s %-10s %s\n", marker, inst.Name, inst.State, addr)
	}
	return nil
}
