package impersonation

import (
	"errors"
	"fmt"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

var (
	// ErrAlreadyImpersonating is returned when a start is attempted while a
	// session is active. The caller must exit first.
	ErrAlreadyImpersonating = errors.New("already impersonating, exit first")

	// ErrNotSignedIn is returned when a transition needs the real identity
	// and none is available.
	ErrNotSignedIn = errors.New("not signed in")
)

// PermissionError rejects an impersonation attempt that does not flow
// strictly downward in the role hierarchy.
type PermissionError struct {
	ActorRole  identity.Role
	TargetRole identity.Role
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %q can not impersonate role %q", e.ActorRole, e.TargetRole)
}
