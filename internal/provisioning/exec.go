package provisioning

import (
	"fmt"
	"strings"
)

// Exec runs a command inside a node and returns its stdout, classifying
// failures: a transport failure becomes KindUnreachableNode, a non-zero
// guest exit becomes KindExecutionFailed. This is the substrate every
// bootstrap and export step runs on.
func (c *Context) Exec(node string, argv ...string) (string, error) {
	res, err := c.Cloud.Exec(c, node, argv...)
	if err != nil {
		return "", E(KindUnreachableNode, node, err)
	}
	if res.ExitCode != 0 {
		return res.Stdout, E(KindExecutionFailed, node, fmt.Errorf(
			"%s exited %d: %s", argv[0], res.ExitCode, firstLine(res.Stderr)))
	}
	return res.Stdout, nil
}

// ExecOK runs a command inside a node and reports whether it exited
// zero. Transport failures are returned as errors; a non-zero exit is
// not an error here, callers use it for existence probes.
func (c *Context) ExecOK(node string, argv ...string) (bool, error) {
	res, err := c.Cloud.Exec(c, node, argv...)
	if err != nil {
		return false, E(KindUnreachableNode, node, err)
	}
	return res.ExitCode == 0, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
