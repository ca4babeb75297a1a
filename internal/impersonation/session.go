package impersonation

import (
	"time"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

// Snapshot preserves the auxiliary view fields of the real account at the
// moment impersonation starts, so exit restores exactly what was shown
// before, independent of profile edits made in between.
type Snapshot map[string]string

// Session is the live impersonation record.
// Presented.ID equals Real.ID exactly when Active is false.
type Session struct {
	Real         identity.Identity
	RealSnapshot Snapshot
	Presented    identity.Identity
	StartedAt    time.Time
	Active       bool
}

func takeSnapshot(real identity.Identity) Snapshot {
	s := Snapshot{
		"displayName": real.DisplayName,
		"role":        real.PrimaryRole.String(),
	}
	if real.SecondaryRole != "" {
		s["secondaryRole"] = real.SecondaryRole.String()
	}

	return s
}

// applySnapshot restores the captured view fields onto the real identity.
func applySnapshot(real identity.Identity, s Snapshot) identity.Identity {
	if s == nil {
		return real
	}

	if v, ok := s["displayName"]; ok && v != "" {
		real.DisplayName = v
	}
	if v, ok := s["role"]; ok && v != "" {
		real.PrimaryRole = identity.ParseRole(v)
	}
	if v, ok := s["secondaryRole"]; ok && v != "" {
		real.SecondaryRole = identity.ParseRole(v)
	}

	return real
}
