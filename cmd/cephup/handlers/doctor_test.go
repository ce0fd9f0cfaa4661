package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cephup/cephup/internal/config"
	"github.com/cephup/cephup/internal/platform/multipass"
	"github.com/cephup/cephup/internal/util/prerequisites"
)

func swapDoctorDeps(t *testing.T) func() {
	t.Helper()
	origTools := checkTools
	origCloud := newCloudClient
	return func() {
		checkTools = origTools
		newCloudClient = origCloud
	}
}

func toolsFound() *prerequisites.CheckResults {
	return &prerequisites.CheckResults{
		Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "multipass", Required: true}, Found: true, Version: "1.13.0"},
		},
	}
}

func TestDoctor_Healthy(t *testing.T) {
	defer swapDoctorDeps(t)()

	checkTools = toolsFound
	newCloudClient = func(_ *config.Timeouts) multipass.Manager {
		return &multipass.MockClient{
			InstancesByPrefixFunc: func(_ context.Context, prefix string) ([]multipass.Instance, error) {
				assert.Equal(t, "ceph-node-", prefix)
				return []multipass.Instance{
					{Name: "ceph-node-1", State: "Running", IPv4: []string{"10.0.0.1"}},
				}, nil
			},
		}
	}

	require.NoError(t, Doctor(context.Background(), "ceph-node"))
}

func TestDoctor_MissingTool(t *testing.T) {
	defer swapDoctorDeps(t)()

	tool := prerequisites.Tool{Name: "multipass", Required: true, InstallURL: "https://canonical.com/multipass/install"}
	checkTools = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{
			Results: []prerequisites.CheckResult{{Tool: tool}},
			Missing: []prerequisites.Tool{tool},
		}
	}
	newCloudClient = func(_ *config.Timeouts) multipass.Manager {
		t.Fatal("daemon must not be probed when the binary is missing")
		return nil
	}

	err := Doctor(context.Background(), "ceph-node")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multipass")
}

func TestDoctor_DaemonDown(t *testing.T) {
	defer swapDoctorDeps(t)()

	checkTools = toolsFound
	newCloudClient = func(_ *config.Timeouts) multipass.Manager {
		return &multipass.MockClient{
			AvailableFunc: func(_ context.Context) bool { return false },
		}
	}

	err := Doctor(context.Background(), "ceph-node")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon")
}
