package cluster

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/platform/multipass"
	"github.com/cephup/cephup/internal/provisioning"
)

type nullObserver struct{}

func (nullObserver) Printf(string, ...interface{}) {}
func (nullObserver) Event(provisioning.Event)      {}

// script records every guest command and answers them through a
// test-provided respond function.
type script struct {
	mu      sync.Mutex
	calls   []string
	respond func(node, cmd string) (string, int)
}

func (s *script) exec(_ context.Context, node string, argv ...string) (multipass.ExecResult, error) {
	cmd := strings.Join(argv, " ")
	s.mu.Lock()
	s.calls = append(s.calls, node+" "+cmd)
	s.mu.Unlock()
	out, code := s.respond(node, cmd)
	return multipass.ExecResult{Stdout: out, ExitCode: code}, nil
}

func (s *script) count(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func (s *script) first(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.calls {
		if strings.Contains(c, substr) {
			return i
		}
	}
	return -1
}

func newTestContext(nodes int, sc *script) *provisioning.Context {
	req := config.DefaultRequest()
	req.NodeCount = nodes
	ctx := provisioning.NewContext(context.Background(), req, &multipass.MockClient{ExecFunc: sc.exec})
	ctx.Observer = nullObserver{}
	ctx.Timeouts.RetryDelay = 0
	return ctx
}

func memberTable(names ...string) string {
	var b strings.Builder
	b.WriteString("+-------------+-----------+\n")
	b.WriteString("|    NAME     |  ADDRESS  |\n")
	b.WriteString("+-------------+-----------+\n")
	for _, n := range names {
		fmt.Fprintf(&b, "| %s | 10.0.0.1 |\n", n)
	}
	b.WriteString("+-------------+-----------+\n")
	return b.String()
}

// freshCluster answers guest commands the way an empty deployment would:
// nothing installed, nothing bootstrapped, joins succeed and show up in
// the member listing.
func freshCluster() *script {
	var mu sync.Mutex
	joined := map[string]bool{}

	sc := &script{}
	sc.respond = func(node, cmd string) (string, int) {
		switch {
		case strings.Contains(cmd, "snap list"):
			return "", 1
		case strings.Contains(cmd, "microceph status"):
			return "", 1
		case strings.Contains(cmd, "cluster add"):
			parts := strings.Fields(cmd)
			return "token-" + parts[len(parts)-1] + "\n", 0
		case strings.Contains(cmd, "cluster join"):
			mu.Lock()
			joined[node] = true
			mu.Unlock()
			return "", 0
		case strings.Contains(cmd, "cluster list"):
			mu.Lock()
			names := []string{"ceph-node-1"}
			for n := range joined {
				names = append(names, n)
			}
			mu.Unlock()
			return memberTable(names...), 0
		case strings.Contains(cmd, "mds stat"):
			return "cephfs:1 {0=ceph-node-1=up:active}", 0
		case strings.Contains(cmd, "mount | grep"):
			return "", 1
		default:
			return "", 0
		}
	}
	return sc
}

func TestProvisionerName(t *testing.T) {
	assert.Equal(t, "cluster", NewProvisioner().Name())
}

func TestProvision_FreshCluster(t *testing.T) {
	sc := freshCluster()
	ctx := newTestContext(3, sc)

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, provisioning.StateBootstrapped, ctx.State.Primary().State)
	for _, node := range ctx.State.Secondaries() {
		assert.Equal(t, provisioning.StateJoined, node.State)
	}
	assert.Equal(t, 3, ctx.State.MemberCount())

	assert.Equal(t, 3, sc.count("snap install microceph"))
	assert.Equal(t, 1, sc.count("cluster bootstrap"))
	assert.Equal(t, 2, sc.count("cluster add"))
	assert.Equal(t, 3, sc.count("disk add "+config.OSDDiskSpec))
	assert.Equal(t, 1, sc.count("pool create "+config.CephPoolMeta+" 64"))
	assert.Equal(t, 1, sc.count("pool create "+config.CephPoolData+" 128"))
	assert.Equal(t, 1, sc.count("fs new cephfs cephfs_meta cephfs_data"))
	assert.Equal(t, 3, sc.count("ceph-fuse"))
}

func TestProvision_BootstrapPrecedesTokens(t *testing.T) {
	sc := freshCluster()
	ctx := newTestContext(3, sc)

	require.NoError(t, NewProvisioner().Provision(ctx))

	bootstrap := sc.first("cluster bootstrap")
	firstToken := sc.first("cluster add")
	require.GreaterOrEqual(t, bootstrap, 0)
	require.GreaterOrEqual(t, firstToken, 0)
	assert.Less(t, bootstrap, firstToken)
}

func TestProvision_JoinUsesIssuedToken(t *testing.T) {
	sc := freshCluster()
	ctx := newTestContext(2, sc)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, 1, sc.count("ceph-node-2 sudo microceph cluster join token-ceph-node-2"))
}

func TestProvision_Idempotent(t *testing.T) {
	sc := &script{}
	sc.respond = func(node, cmd string) (string, int) {
		switch {
		case strings.Contains(cmd, "cluster list"):
			return memberTable("ceph-node-1", "ceph-node-2", "ceph-node-3"), 0
		case strings.Contains(cmd, "disk list"):
			return "| 1 | /dev/sdb | " + node + " |", 0
		case strings.Contains(cmd, "pool ls"):
			return "cephfs_meta\ncephfs_data\n", 0
		case strings.Contains(cmd, "fs ls"):
			return "name: cephfs, metadata pool: cephfs_meta, data pools: [cephfs_data ]", 0
		case strings.Contains(cmd, "mds stat"):
			return "cephfs:1 {0=ceph-node-1=up:active}", 0
		default:
			return "", 0
		}
	}
	ctx := newTestContext(3, sc)

	require.NoError(t, NewProvisioner().Provision(ctx))

	for _, substr := range []string{
		"snap install", "cluster bootstrap", "cluster add", "cluster join",
		"disk add", "pool create", "fs new", "ceph-fuse",
	} {
		assert.Zero(t, sc.count(substr), "expected no %q call on re-run", substr)
	}
}

func TestProvision_JoinFailureToleratedAboveQuorum(t *testing.T) {
	sc := freshCluster()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if node == "ceph-node-3" && strings.Contains(cmd, "cluster join") {
			return "", 1
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(3, sc)

	require.NoError(t, NewProvisioner().Provision(ctx))

	failed := ctx.State.FailedNodes()
	require.Len(t, failed, 1)
	assert.Equal(t, "ceph-node-3", failed[0].Name)
	assert.Equal(t, provisioning.KindJoinFailed, provisioning.KindOf(failed[0].LastErr))
	assert.Equal(t, ctx.Timeouts.RetryMaxAttempts, failed[0].JoinAttempts)

	// A fresh token is requested for every attempt.
	assert.Equal(t, 1+ctx.Timeouts.RetryMaxAttempts, sc.count("cluster add"))

	// The surviving members still get disks and mounts.
	assert.Equal(t, 2, sc.count("disk add"))
}

func TestProvision_QuorumNotReached(t *testing.T) {
	sc := freshCluster()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if strings.Contains(cmd, "cluster join") {
			return "", 1
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(2, sc)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindQuorumNotReached, provisioning.KindOf(err))
	assert.Contains(t, err.Error(), "1 of 2 required nodes joined")

	assert.Zero(t, sc.count("disk add"))
	assert.Zero(t, sc.count("fs new"))
}

func TestProvision_BootstrapFailureStopsBeforeTokens(t *testing.T) {
	sc := freshCluster()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if strings.Contains(cmd, "cluster bootstrap") {
			return "", 1
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(3, sc)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindBootstrapFailed, provisioning.KindOf(err))
	assert.Zero(t, sc.count("cluster add"))
}

func TestProvision_MDSNeverActive(t *testing.T) {
	sc := freshCluster()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if strings.Contains(cmd, "mds stat") {
			return "cephfs:1 {0=ceph-node-1=up:standby}", 0
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(1, sc)
	ctx.Timeouts.MDSActive = 0

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindBootstrapFailed, provisioning.KindOf(err))
	assert.Contains(t, err.Error(), "metadata server")
}

func TestProvision_MountFailureDoesNotFailDeploy(t *testing.T) {
	sc := freshCluster()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if strings.Contains(cmd, "ceph-fuse") {
			return "", 1
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(1, sc)

	require.NoError(t, NewProvisioner().Provision(ctx))
}
