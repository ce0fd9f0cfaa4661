package provisioning

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormat(t *testing.T) {
	err := E(KindJoinFailed, "ceph-node-2", errors.New("token rejected"))
	assert.Contains(t, err.Error(), "join_failed")
	assert.Contains(t, err.Error(), "ceph-node-2")
	assert.Contains(t, err.Error(), "token rejected")

	noNode := E(KindQuorumNotReached, "", errors.New("1 of 2 joined"))
	assert.NotContains(t, noNode.Error(), "node")
}

func TestKindOf(t *testing.T) {
	base := E(KindExecutionFailed, "ceph-node-1", errors.New("exit 1"))
	wrapped := fmt.Errorf("install step: %w", base)

	assert.Equal(t, KindExecutionFailed, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindExecutionFailed))
	assert.False(t, IsKind(wrapped, KindJoinFailed))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := E(KindBootstrapFailed, "ceph-node-1", cause)
	assert.True(t, errors.Is(err, cause))
}
