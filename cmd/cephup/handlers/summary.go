package handlers

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/cephup/cephup/internal/provisioning"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true)
	summaryOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	summaryWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	summaryDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// printDeploySummary prints the endpoint, credentials and per-node
// outcome of a finished deploy.
func printDeploySummary(pctx *provisioning.Context) {
	creds := pctx.State.Credentials

	fmt.Println()
	fmt.Println(summaryTitle.Render("Cluster ready"))
	fmt.Println()
	fmt.Printf("  Share:      %s\n", uncPath(pctx.State.PrimaryAddress, creds.ShareName))
	fmt.Printf("  Username:   %s\n", creds.Username)
	fmt.Printf("  Password:   %s\n", creds.Password)
	fmt.Printf("  CephFS at:  %s (on every cluster node)\n", creds.MountPoint)
	if pctx.State.ClientMount != "" {
		fmt.Printf("  Client:     mounted at %s\n", pctx.State.ClientMount)
	}
	fmt.Println()

	fmt.Println(summaryTitle.Render("Nodes"))
	for _, n := range pctx.State.Nodes() {
		marker := summaryOK.Render("[OK]")
		detail := string(n.State)
		switch n.State {
		case provisioning.StateFailed:
			marker = summaryWarn.Render("[!!]")
			if n.LastErr != nil {
				detail = fmt.Sprintf("%s: %v", n.State, n.LastErr)
			}
		}
		addr := n.Address
		if addr == "" {
			addr = "-"
		}
		fmt.Printf("  %s %-18s %-15s %s\n", marker, n.Name, addr, detail)
	}
	fmt.Println()
	fmt.Println(summaryDim.Render("  Access details saved to " + accessFilePath))

	if failed := pctx.State.FailedNodes(); len(failed) > 0 {
		fmt.Println(summaryWarn.Render(fmt.Sprintf("  Degraded: %d node(s) did not complete", len(failed))))
	}
}
