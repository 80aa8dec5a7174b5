package services

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated means there is no active session (or it could not be
// refreshed). Callers surface it as a prompt to sign in again, never as a
// generic network error.
var ErrUnauthenticated = errors.New("no active session, please sign in again")

// ErrAlreadyInvited is the idempotency guard for invite sends. It is surfaced
// as a disabled "Invited" affordance, not as an error banner.
var ErrAlreadyInvited = errors.New("user already invited for this contest")

// ValidationError reports input rejected locally, before any network call is
// made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError reports a failed remote call: a non-2xx response or a transport
// failure. Remote errors are logged at the call site and shown as a
// dismissable message; the operation may be retried manually.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
