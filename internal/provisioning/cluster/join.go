package cluster

import (
	"strings"
	"time"

	"github.com/cephup/cephup/internal/provisioning"
)

// joinSecondaries walks the secondaries one at a time and joins each to
// the primary's cluster. Join tokens are single use, so every attempt
// requests a fresh one. A secondary that exhausts its attempts is marked
// Failed and the loop moves on; the quorum gate decides afterwards
// whether the cluster as a whole is viable.
func (p *Provisioner) joinSecondaries(ctx *provisioning.Context) {
	members := p.listMembers(ctx)

	for _, node := range ctx.State.Secondaries() {
		if ctx.State.NodeState(node.Name) == provisioning.StateFailed {
			continue
		}

		if members[node.Name] {
			provisioning.LogResourceExists(ctx.Observer, phase, node.Name+" cluster membership")
			ctx.State.SetNodeState(node.Name, provisioning.StateJoined)
			provisioning.LogNodeState(ctx.Observer, phase, node.Name, provisioning.StateJoined)
			continue
		}

		if err := p.joinNode(ctx, node.Name); err != nil {
			ctx.State.FailNode(node.Name, provisioning.E(provisioning.KindJoinFailed, node.Name, err))
			continue
		}

		ctx.State.SetNodeState(node.Name, provisioning.StateJoined)
		provisioning.LogNodeState(ctx.Observer, phase, node.Name, provisioning.StateJoined)
	}
}

// joinNode drives a single secondary through token issuance, the join
// call and a membership check, retrying the whole sequence.
func (p *Provisioner) joinNode(ctx *provisioning.Context, name string) error {
	var lastErr error

	for attempt := 1; attempt <= ctx.Timeouts.RetryMaxAttempts; attempt++ {
		ctx.State.RecordJoinAttempt(name)

		if attempt > 1 {
			ctx.Observer.Event(provisioning.Event{
				Type: provisioning.EventRetry, Phase: phase, Node: name,
				Message: lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ctx.Timeouts.RetryDelay):
			}
		}

		token, err := p.execPrimary(ctx, "sudo", "microceph", "cluster", "add", name)
		if err != nil {
			lastErr = err
			continue
		}

		if _, err := ctx.Exec(name, "sudo", "microceph", "cluster", "join", strings.TrimSpace(token)); err != nil {
			lastErr = err
			continue
		}

		if p.listMembers(ctx)[name] {
			return nil
		}
		lastErr = provisioning.E(provisioning.KindJoinFailed, name,
			errNotListed{node: name})
	}

	return lastErr
}

type errNotListed struct{ node string }

func (e errNotListed) Error() string {
	return e.node + " joined but is not listed as a cluster member"
}

// listMembers reports the current member names according to the primary.
// The output is a box-drawn table; member names sit in the first column
// of the body rows.
func (p *Provisioner) listMembers(ctx *provisioning.Context) map[string]bool {
	members := map[string]bool{}

	out, err := p.execPrimary(ctx, "sudo", "microceph", "cluster", "list")
	if err != nil {
		return members
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cols := strings.Split(line, "|")
		if len(cols) < 2 {
			continue
		}
		name := strings.TrimSpace(cols[1])
		if name == "" || strings.EqualFold(name, "name") {
			continue
		}
		members[name] = true
	}
	return members
}
