// Package provisioning provides shared types and interfaces for cluster
// provisioning.
//
// The provisioning domain is organized into focused subpackages:
//   - compute/ — instance creation and readiness
//   - cluster/ — MicroCeph bootstrap, join loop, OSDs, filesystem
//   - share/ — Samba export and the optional client mount
//   - destroy/ — teardown by base-name prefix
//
// This root package contains the phase pipeline, the deployment session
// state, the error taxonomy and the observer used by all subpackages.
package provisioning
