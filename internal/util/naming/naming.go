// Package naming provides consistent naming for cluster instances.
//
// Every Multipass instance belonging to a deployment is named from the
// request's base name: cluster nodes are numbered from 1 and the
// optional client carries a fixed suffix. Teardown relies on these
// patterns to find every instance of a deployment by prefix.
package naming

import "fmt"

// Node returns the instance name for the i-th cluster node (1-based).
func Node(baseName string, i int) string {
	return fmt.Sprintf("%s-%d", baseName, i)
}

// Client returns the instance name for the optional client machine.
func Client(baseName string) string {
	return fmt.Sprintf("%s-client", baseName)
}

// Prefix returns the prefix matching every instance of a deployment,
// including the client.
func Prefix(baseName string) string {
	return baseName + "-"
}
