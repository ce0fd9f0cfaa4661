package provisioning

import (
	"context"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/platform/multipass"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	State    *State
	Cloud    multipass.Manager
	Creds    config.ShareCredentials
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a provisioning context for one deployment session.
func NewContext(ctx context.Context, req config.TopologyRequest, cloud multipass.Manager) *Context {
	return &Context{
		Context:  ctx,
		State:    NewState(req),
		Cloud:    cloud,
		Creds:    config.DefaultShareCredentials(),
		Observer: NewConsoleObserver(req.Debug),
		Timeouts: config.LoadTimeouts(),
	}
}

// Detached returns a copy of the context that is no longer tied to the
// session's cancellation. Cleanup after a cancelled deploy runs on it,
// otherwise the teardown commands would fail on the same cancelled
// context that aborted the deploy.
func (c *Context) Detached() *Context {
	d := *c
	d.Context = context.Background()
	return &d
}

// Request returns the topology request this session was created for.
func (c *Context) Request() config.TopologyRequest {
	return c.State.Request
}
