// Package multipass wraps the Multipass CLI behind narrow interfaces.
//
// All hypervisor operations (launch, list, delete) and every in-guest
// command run through this package. The real client shells out to the
// multipass binary with per-operation timeouts; tests substitute the
// MockClient or the command runner seam.
package multipass
