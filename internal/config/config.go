// Package config defines the topology request consumed by the
// provisioning pipeline, its defaults and validation, and the fixed
// share credentials attached to a deployed cluster.
package config

import (
	"fmt"
	"regexp"
)

// sizeRegex matches Multipass size syntax: a positive integer with an
// optional K/M/G suffix (e.g. 2048, 2G, 512M).
var sizeRegex = regexp.MustCompile(`(?i)^\d+[KMG]?$`)

// baseNameRegex matches valid instance base names: 1-32 lowercase
// alphanumeric characters or hyphens, starting and ending alphanumeric.
var baseNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// ValidBaseName reports whether s is a usable instance base name.
func ValidBaseName(s string) bool {
	return baseNameRegex.MatchString(s)
}

// ValidSize reports whether s is a usable Multipass size value.
func ValidSize(s string) bool {
	return sizeRegex.MatchString(s)
}

// TopologyRequest is the fully-resolved, immutable input for one deploy.
// Instances are named <BaseName>-1 .. <BaseName>-N; the first node is
// the cluster primary. An optional client machine named
// <BaseName>-client mounts the exported share.
type TopologyRequest struct {
	NodeCount  int    `yaml:"nodes"`
	BaseName   string `yaml:"base_name"`
	CPUs       int    `yaml:"cpus"`
	Memory     string `yaml:"ram"`
	Disk       string `yaml:"disk"`
	Image      string `yaml:"image"`
	WithClient bool   `yaml:"with_client"`

	// Debug enables verbose command output and suppresses automatic
	// rollback on failure so partial state can be inspected.
	Debug bool `yaml:"debug"`
}

// DefaultRequest returns the documented default topology:
// three nodes named ceph-node-*, 2 CPUs, 2G RAM, 10G disk, Ubuntu 22.04.
func DefaultRequest() TopologyRequest {
	return TopologyRequest{
		NodeCount: 3,
		BaseName:  "ceph-node",
		CPUs:      2,
		Memory:    "2G",
		Disk:      "10G",
		Image:     "22.04",
	}
}

// Validate checks the request for invalid values.
func (r TopologyRequest) Validate() error {
	if r.NodeCount < 1 {
		return fmt.Errorf("node count must be at least 1, got %d", r.NodeCount)
	}
	if r.CPUs < 1 {
		return fmt.Errorf("cpus must be at least 1, got %d", r.CPUs)
	}
	if !baseNameRegex.MatchString(r.BaseName) {
		return fmt.Errorf("invalid base name %q: must be 1-32 lowercase alphanumeric characters or hyphens", r.BaseName)
	}
	if !sizeRegex.MatchString(r.Memory) {
		return fmt.Errorf("invalid memory size %q: expected a number with optional K/M/G suffix", r.Memory)
	}
	if !sizeRegex.MatchString(r.Disk) {
		return fmt.Errorf("invalid disk size %q: expected a number with optional K/M/G suffix", r.Disk)
	}
	if r.Image == "" {
		return fmt.Errorf("image is required")
	}
	return nil
}

// Quorum returns the minimum number of joined cluster members required
// for the deployment to count as usable. Clusters of one or two nodes
// have no strict majority, so every requested node must join; larger
// clusters need a strict majority.
func (r TopologyRequest) Quorum() int {
	if r.NodeCount <= 2 {
		return r.NodeCount
	}
	return r.NodeCount/2 + 1
}

// ShareCredentials is the fixed identity under which the cluster
// filesystem is exported. It is passed explicitly into the share
// exporter so tests and callers can inject overrides.
type ShareCredentials struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	ShareName  string `yaml:"share_name"`
	MountPoint string `yaml:"mount_point"`
}

// DefaultShareCredentials returns the orchestrator-managed share identity.
func DefaultShareCredentials() ShareCredentials {
	return ShareCredentials{
		Username:   "sambauser",
		Password:   "samba123",
		ShareName:  "CephFS",
		MountPoint: "/mnt/cephfs",
	}
}
