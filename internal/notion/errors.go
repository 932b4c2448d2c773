// ABOUTME: Remote failure type for the record-store client.
// ABOUTME: Transport and auth failures are terminal and never retried here.

package notion

import "fmt"

// RemoteError is an opaque transport, auth, or not-found failure from the
// record store. Callers treat it as terminal for the current cycle.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("notion: %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("notion: %s: %s", e.Op, e.Message)
}
