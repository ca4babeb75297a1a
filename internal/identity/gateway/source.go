package gateway

import (
	"context"
	"errors"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

// Passthrough answers identity queries from the real remote session.
type Passthrough struct {
	gw Gateway
}

// NewPassthrough creates the default identity source proxying the remote service.
func NewPassthrough(gw Gateway) *Passthrough {
	return &Passthrough{gw: gw}
}

// CurrentIdentity resolves the remote session to a normalized identity.
// ErrNoSession passes through untouched so callers can distinguish
// "signed out" from "service down".
func (p *Passthrough) CurrentIdentity(ctx context.Context) (identity.Identity, error) {
	sess, err := p.gw.GetSession(ctx)
	if err != nil {
		return identity.Identity{}, err //nolint:wrapcheck
	}

	profile, err := p.gw.GetProfile(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			// session without a profile row still renders as a minimal identity
			return identity.FromProfile(identity.Profile{ID: sess.UserID, Email: sess.Email}), nil
		}

		return identity.Identity{}, err //nolint:wrapcheck
	}

	return identity.FromProfile(*profile), nil
}

// SignOut implements IdentitySource.
func (p *Passthrough) SignOut(ctx context.Context) error {
	return p.gw.SignOut(ctx) //nolint:wrapcheck
}

// Impersonated answers identity queries from the cached presented identity,
// with no network round-trip. It replaces the source system's habit of
// monkey-patching the remote client's methods at runtime with an explicit
// decorator selected at transition time.
type Impersonated struct {
	presented identity.Identity
	real      IdentitySource
}

// NewImpersonated wraps the real source with a fixed presented identity.
func NewImpersonated(presented identity.Identity, real IdentitySource) *Impersonated {
	return &Impersonated{presented: presented, real: real}
}

// CurrentIdentity returns the cached presented identity.
func (i *Impersonated) CurrentIdentity(_ context.Context) (identity.Identity, error) {
	return i.presented, nil
}

// SignOut always performs the real remote sign-out; the impersonation
// record is cleared by the state manager, not here.
func (i *Impersonated) SignOut(ctx context.Context) error {
	return i.real.SignOut(ctx) //nolint:wrapcheck
}
