// Package wizard provides the interactive topology wizard for the
// deploy command.
//
// The wizard guides users through sizing a deployment when no flags are
// given on an interactive terminal. It uses charmbracelet/huh for
// form-based input collection and returns a validated
// config.TopologyRequest.
package wizard

import (
	"context"
	"fmt"

	"github.com/cephup/cephup/internal/config"
)

// Run runs the interactive topology wizard, starting from the given
// request (usually the defaults, possibly overlaid with a config file).
// The context is used for cancellation support.
func Run(ctx context.Context, req config.TopologyRequest) (config.TopologyRequest, error) {
	if err := runTopologyGroup(ctx, &req); err != nil {
		return req, fmt.Errorf("topology: %w", err)
	}
	if err := runSizingGroup(ctx, &req); err != nil {
		return req, fmt.Errorf("sizing: %w", err)
	}
	if err := runOptionsGroup(ctx, &req); err != nil {
		return req, fmt.Errorf("options: %w", err)
	}

	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}
