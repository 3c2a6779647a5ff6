// File: internal/agentbrowser/errors.go
package agentbrowser

import (
	"fmt"
	"strings"
)

// ExternalCommandError reports a subprocess that exited nonzero or could not
// run. Stderr holds the captured error text verbatim.
type ExternalCommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalCommandError) Error() string {
	name := e.Command
	if len(e.Args) > 0 {
		name += " " + e.Args[0]
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("%s failed: %s", name, msg)
	}
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s failed with exit code %d", name, e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", name, e.Err)
}

func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}
