package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "cephup", cmd.Use)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expected := []string{"deploy", "destroy", "doctor", "version"}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, subcommands[name], "Expected subcommand %s not found", name)
	}
}

func TestDeploy_Flags(t *testing.T) {
	cmd := Deploy()

	nodes := cmd.Flags().Lookup("nodes")
	require.NotNil(t, nodes)
	assert.Equal(t, "n", nodes.Shorthand)
	assert.Equal(t, "3", nodes.DefValue)

	for _, name := range []string{"base-name", "cpus", "ram", "disk", "image", "with-client", "default", "plain", "debug", "config"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestDestroy_Flags(t *testing.T) {
	cmd := Destroy()

	base := cmd.Flags().Lookup("base-name")
	require.NotNil(t, base)
	assert.Equal(t, "ceph-node", base.DefValue)

	yes := cmd.Flags().Lookup("yes")
	require.NotNil(t, yes)
	assert.Equal(t, "y", yes.Shorthand)
}

func TestVersion_Output(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	cmd := Version()
	require.NotNil(t, cmd)
	assert.Equal(t, "version", cmd.Use)
}
