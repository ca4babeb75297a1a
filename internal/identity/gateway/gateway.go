package gateway

import (
	"context"
	"time"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

// Session is the remote session as reported by the identity service.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Gateway is the raw contract of the hosted identity service.
type Gateway interface {
	// GetSession returns the current remote session, ErrNoSession when the
	// caller is not signed in.
	GetSession(ctx context.Context) (*Session, error)

	// GetProfile returns the profile fields for a user id.
	GetProfile(ctx context.Context, userID string) (*identity.Profile, error)

	// SignOut invalidates the remote session.
	SignOut(ctx context.Context) error
}

// IdentitySource is what UI code asks "who is logged in". It is implemented
// by Passthrough (real remote session) and Impersonated (cached presented
// identity), selected by the impersonation state manager at transition time.
type IdentitySource interface {
	CurrentIdentity(ctx context.Context) (identity.Identity, error)
	SignOut(ctx context.Context) error
}
