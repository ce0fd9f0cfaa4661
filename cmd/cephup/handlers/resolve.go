package handlers

import (
	"context"
	"fmt"

	"github.com/cephup/cephup/internal/config"
)

// resolveRequest turns flags, an optional topology file and the wizard
// into a validated request. Precedence: explicit flags over the file,
// the file over defaults. The wizard runs only interactively, when no
// sizing was given by flag or file and --default was not passed.
func resolveRequest(ctx context.Context, opts DeployOptions) (config.TopologyRequest, error) {
	req := config.DefaultRequest()

	fromFile := false
	switch {
	case opts.ConfigPath != "":
		loaded, err := loadConfigFile(opts.ConfigPath)
		if err != nil {
			return req, fmt.Errorf("loading %s: %w", opts.ConfigPath, err)
		}
		req = loaded
		fromFile = true
	case fileExists(config.DefaultConfigFile):
		loaded, err := loadConfigFile(config.DefaultConfigFile)
		if err != nil {
			return req, fmt.Errorf("loading %s: %w", config.DefaultConfigFile, err)
		}
		req = loaded
		fromFile = true
	}

	anyFlag := false
	apply := func(name string, set func()) {
		if opts.Changed[name] {
			anyFlag = true
			set()
		}
	}
	apply("nodes", func() { req.NodeCount = opts.Nodes })
	apply("base-name", func() { req.BaseName = opts.BaseName })
	apply("cpus", func() { req.CPUs = opts.CPUs })
	apply("ram", func() { req.Memory = opts.Memory })
	apply("disk", func() { req.Disk = opts.Disk })
	apply("image", func() { req.Image = opts.Image })

	if opts.WithClient {
		req.WithClient = true
	}
	if opts.Debug {
		req.Debug = true
	}

	if !anyFlag && !fromFile && !opts.UseDefaults && isInteractive() {
		answered, err := runWizard(ctx, req)
		if err != nil {
			return req, fmt.Errorf("wizard canceled: %w", err)
		}
		return answered, nil
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}
