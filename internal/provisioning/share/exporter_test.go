package share

import (
	"context"
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

// freshExport answers guest commands as if the cluster phase just
// finished: the mount exists, samba is absent and smb.conf is untouched.
func freshExport() *script {
	sc := &script{}
	sc.respond = func(node, cmd string) (string, int) {
		switch {
		case strings.Contains(cmd, "mount | grep"):
			return "", 0
		case strings.Contains(cmd, "dpkg -s"):
			return "", 1
		case strings.HasPrefix(cmd, "id "):
			return "", 1
		case strings.Contains(cmd, "grep -Fxq"):
			return "", 1
		case strings.Contains(cmd, "findmnt"):
			return "", 1
		case strings.Contains(cmd, "ip route get"):
			return "ens3\n", 0
		case strings.Contains(cmd, "addr show"):
			return "10.20.30.50/24\n", 0
		case strings.Contains(cmd, "/^default/"):
			return "10.20.30.1\n", 0
		default:
			return "", 0
		}
	}
	return sc
}

func newTestContext(withClient bool, sc *script, mock *multipass.MockClient) *provisioning.Context {
	req := config.DefaultRequest()
	req.NodeCount = 1
	req.WithClient = withClient
	if mock == nil {
		mock = &multipass.MockClient{}
	}
	mock.ExecFunc = sc.exec
	ctx := provisioning.NewContext(context.Background(), req, mock)
	ctx.Observer = nullObserver{}
	ctx.Timeouts.RetryDelay = 0
	ctx.State.SetNodeState("ceph-node-1", provisioning.StateBootstrapped)
	ctx.State.SetNodeAddress("ceph-node-1", "10.20.30.40")
	return ctx
}

func TestExporterName(t *testing.T) {
	assert.Equal(t, "share", NewExporter().Name())
}

func TestProvision_ExportsShare(t *testing.T) {
	sc := freshExport()
	ctx := newTestContext(false, sc, nil)

	require.NoError(t, NewExporter().Provision(ctx))

	assert.Equal(t, 1, sc.count("apt-get install -y samba"))
	assert.Equal(t, 1, sc.count("adduser --disabled-password"))
	assert.Equal(t, 1, sc.count("smbpasswd -s -a sambauser"))
	assert.Equal(t, 1, sc.count("chown -R sambauser:sambauser /mnt/cephfs"))
	assert.Equal(t, 1, sc.count("tee -a /etc/samba/smb.conf"))
	assert.Equal(t, 1, sc.count("systemctl restart smbd"))

	assert.Equal(t, provisioning.StateConfigured, ctx.State.Primary().State)
	assert.Equal(t, "10.20.30.40", ctx.State.PrimaryAddress)
	assert.Equal(t, "CephFS", ctx.State.Credentials.ShareName)
}

func TestProvision_IdempotentExport(t *testing.T) {
	sc := &script{}
	sc.respond = func(node, cmd string) (string, int) {
		// Everything already in place.
		return "", 0
	}
	ctx := newTestContext(false, sc, nil)

	require.NoError(t, NewExporter().Provision(ctx))

	assert.Zero(t, sc.count("apt-get install"))
	assert.Zero(t, sc.count("adduser"))
	assert.Zero(t, sc.count("tee -a"))
	// The password and the service restart are reapplied every run.
	assert.Equal(t, 1, sc.count("smbpasswd"))
	assert.Equal(t, 1, sc.count("systemctl restart smbd"))
}

func TestProvision_PrimaryNotMounted(t *testing.T) {
	sc := freshExport()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if strings.Contains(cmd, "mount | grep") {
			return "", 1
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(false, sc, nil)

	err := NewExporter().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindExportFailed, provisioning.KindOf(err))
	assert.Contains(t, err.Error(), "not mounted")
}

func TestProvision_ClientMountsShare(t *testing.T) {
	sc := freshExport()
	var launched multipass.LaunchOpts
	mock := &multipass.MockClient{
		LaunchFunc: func(_ context.Context, opts multipass.LaunchOpts) error {
			launched = opts
			return nil
		},
	}
	ctx := newTestContext(true, sc, mock)

	require.NoError(t, NewExporter().Provision(ctx))

	assert.Equal(t, "ceph-node-client", launched.Name)
	assert.Equal(t, config.ClientCPUs, launched.CPUs)
	assert.Equal(t, config.ClientMemory, launched.Memory)

	assert.Equal(t, 1, sc.count("netplan apply"))
	assert.Equal(t, 1, sc.count("apt-get install -y cifs-utils"))
	assert.Equal(t, 1, sc.count("mount -t cifs //10.20.30.40/CephFS /mnt/cephfs"))
	assert.Equal(t, "/mnt/cephfs", ctx.State.ClientMount)

	nodes := ctx.State.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, provisioning.RoleClient, nodes[1].Role)
	assert.Equal(t, provisioning.StateConfigured, nodes[1].State)
}

func TestProvision_ClientMountFailureDegrades(t *testing.T) {
	sc := freshExport()
	inner := sc.respond
	sc.respond = func(node, cmd string) (string, int) {
		if strings.Contains(cmd, "mount -t cifs") {
			return "", 32
		}
		return inner(node, cmd)
	}
	ctx := newTestContext(true, sc, nil)

	require.NoError(t, NewExporter().Provision(ctx))

	failed := ctx.State.FailedNodes()
	require.Len(t, failed, 1)
	assert.Equal(t, "ceph-node-client", failed[0].Name)
	assert.Equal(t, provisioning.KindMountFailed, provisioning.KindOf(failed[0].LastErr))
	// The share itself is still live.
	assert.Equal(t, provisioning.StateConfigured, ctx.State.Primary().State)
}
