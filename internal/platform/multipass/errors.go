package multipass

import (
	"errors"
	"fmt"
	"strings"
)

// CommandError reports a multipass CLI invocation that completed with a
// non-zero exit code.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("multipass %s: exit code %d: %s",
		strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// ErrInstanceNotFound marks operations against an instance multipass
// does not know about.
var ErrInstanceNotFound = errors.New("instance not found")

// IsNotFound checks if an error indicates a missing instance.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInstanceNotFound)
}

// notFoundStderr reports whether multipass stderr output describes a
// missing instance. The CLI has no structured errors, so this matches
// the phrasings it actually emits.
func notFoundStderr(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "does not exist") ||
		strings.Contains(s, "instance not found") ||
		strings.Contains(s, "cannot find")
}
