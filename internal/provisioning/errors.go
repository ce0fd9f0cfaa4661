package provisioning

import (
	"errors"
	"fmt"
)

// Kind classifies a provisioning failure. Every error that escapes a
// phase carries exactly one kind; the CLI maps kinds to exit codes.
type Kind string

const (
	// KindProvisioningFailed means an instance could not be created or
	// never became reachable.
	KindProvisioningFailed Kind = "provisioning_failed"

	// KindUnreachableNode means an in-guest command never ran because
	// the instance or the hypervisor could not be reached.
	KindUnreachableNode Kind = "unreachable_node"

	// KindExecutionFailed means an in-guest command ran and exited
	// non-zero.
	KindExecutionFailed Kind = "execution_failed"

	// KindBootstrapFailed means the storage layer could not be formed:
	// a node's storage daemon install, the primary's initialization,
	// OSD attachment or filesystem creation failed.
	KindBootstrapFailed Kind = "bootstrap_failed"

	// KindJoinFailed means a secondary exhausted its join retries.
	KindJoinFailed Kind = "join_failed"

	// KindQuorumNotReached means too few nodes joined to form a usable
	// cluster.
	KindQuorumNotReached Kind = "quorum_not_reached"

	// KindExportFailed means the share service could not be configured
	// on the primary.
	KindExportFailed Kind = "export_failed"

	// KindMountFailed means the client could not mount the share. The
	// cluster itself is still healthy.
	KindMountFailed Kind = "mount_failed"

	// KindDestroyPartialFailure means one or more instances survived a
	// teardown attempt.
	KindDestroyPartialFailure Kind = "destroy_partial_failure"
)

// Error is a classified provisioning failure, optionally tied to a node.
type Error struct {
	Kind Kind
	Node string
	Err  error
}

func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: node %s: %v", e.Kind, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and an optional node name.
func E(kind Kind, node string, err error) *Error {
	return &Error{Kind: kind, Node: node, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's
// chain, or the empty kind when err carries no classification.
func KindOf(err error) Kind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
