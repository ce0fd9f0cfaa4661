package wizard

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/cephup/cephup/internal/config"
)

// NodeCountOptions are the selectable cluster sizes. Two-node clusters
// are allowed but called out: losing either node loses the cluster.
var NodeCountOptions = []huh.Option[int]{
	huh.NewOption("1 node (no redundancy)", 1),
	huh.NewOption("2 nodes (no failure tolerance)", 2),
	huh.NewOption("3 nodes (recommended)", 3),
	huh.NewOption("5 nodes", 5),
}

// ImageOptions are the supported Ubuntu releases.
var ImageOptions = []huh.Option[string]{
	huh.NewOption("Ubuntu 22.04 LTS", "22.04"),
	huh.NewOption("Ubuntu 24.04 LTS", "24.04"),
}

// CPUOptions are the selectable per-node CPU counts.
var CPUOptions = []huh.Option[int]{
	huh.NewOption("1 CPU", 1),
	huh.NewOption("2 CPUs (recommended)", 2),
	huh.NewOption("4 CPUs", 4),
}

// runTopologyGroup prompts for node count and instance base name.
func runTopologyGroup(ctx context.Context, req *config.TopologyRequest) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Node Count").
				Description("Number of storage cluster nodes").
				Options(NodeCountOptions...).
				Value(&req.NodeCount),
			huh.NewInput().
				Title("Base Name").
				Description("Instances are named <base>-1 .. <base>-N").
				Placeholder("ceph-node").
				Value(&req.BaseName).
				Validate(validateBaseName),
		).Title("Topology"),
	).RunWithContext(ctx)
}

// runSizingGroup prompts for per-node machine sizing.
func runSizingGroup(ctx context.Context, req *config.TopologyRequest) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("CPUs per Node").
				Options(CPUOptions...).
				Value(&req.CPUs),
			huh.NewInput().
				Title("RAM per Node").
				Description("A number with optional K/M/G suffix").
				Placeholder("2G").
				Value(&req.Memory).
				Validate(validateSize),
			huh.NewInput().
				Title("Disk per Node").
				Description("A number with optional K/M/G suffix").
				Placeholder("10G").
				Value(&req.Disk).
				Validate(validateSize),
		).Title("Sizing"),
	).RunWithContext(ctx)
}

// runOptionsGroup prompts for the image and the optional client machine.
func runOptionsGroup(ctx context.Context, req *config.TopologyRequest) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Image").
				Description("Ubuntu release for every instance").
				Options(ImageOptions...).
				Value(&req.Image),
			huh.NewConfirm().
				Title("Launch Client Machine?").
				Description("An extra instance that mounts the share over CIFS").
				Value(&req.WithClient),
		).Title("Options"),
	).RunWithContext(ctx)
}

func validateBaseName(s string) error {
	if s == "" {
		return errBaseNameRequired
	}
	if !config.ValidBaseName(s) {
		return errBaseNameInvalid
	}
	return nil
}

func validateSize(s string) error {
	if s == "" {
		return errSizeRequired
	}
	if !config.ValidSize(s) {
		return errSizeInvalid
	}
	return nil
}
