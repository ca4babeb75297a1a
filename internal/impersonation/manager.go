package impersonation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
	"github.com/sparky-messaging/sparky-admin/internal/identity/gateway"
)

// defaultRefreshTimeout bounds RefreshFromRemote. Identity refresh runs on
// page load and must degrade instead of blocking rendering.
const defaultRefreshTimeout = 3 * time.Second

// Manager is the authoritative state machine for impersonation. It starts
// Idle unless the store holds a valid session, in which case it resumes
// Impersonating. All mutations go through Start and Exit; reads never touch
// the network.
type Manager struct {
	store          *Store
	passthrough    gateway.IdentitySource
	refreshTimeout time.Duration

	mu        sync.Mutex
	real      identity.Identity
	session   *Session
	source    gateway.IdentitySource
	observers []func(View)
}

// NewManager builds a manager over the store and the real identity source,
// restoring a persisted session when one is still valid.
func NewManager(store *Store, passthrough gateway.IdentitySource, refreshTimeout time.Duration) *Manager {
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}

	m := &Manager{
		store:          store,
		passthrough:    passthrough,
		refreshTimeout: refreshTimeout,
		source:         passthrough,
	}

	if sess := store.Load(); sess != nil {
		m.real = sess.Real
		m.session = sess
		m.source = gateway.NewImpersonated(sess.Presented, passthrough)

		log.Info().
			Str("realUser", sess.Real.ID).
			Str("presentedUser", sess.Presented.ID).
			Time("startedAt", sess.StartedAt).
			Msg("resumed impersonation session from store")
	}

	return m
}

// OnChange registers a callback invoked after every state change with the
// current presenter view. Callbacks run outside the manager lock.
func (m *Manager) OnChange(fn func(View)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, fn)
}

// IsImpersonating reports whether a session is active.
func (m *Manager) IsImpersonating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.session != nil
}

// Real returns the real signed-in identity as last refreshed.
func (m *Manager) Real() identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.real
}

// Presented returns the identity currently shown to the UI: the
// impersonation target while a session is active, the real identity
// otherwise. Pure read, no network.
func (m *Manager) Presented() identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.presentedLocked()
}

func (m *Manager) presentedLocked() identity.Identity {
	if m.session != nil {
		return m.session.Presented
	}

	return m.real
}

// Source returns the identity source UI code should read from. It switches
// between the passthrough and the impersonated decorator as sessions start
// and end.
func (m *Manager) Source() gateway.IdentitySource {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.source
}

// Start begins impersonating target on behalf of actor. The actor's role
// must be strictly higher in the hierarchy than the target's; peers and
// superiors are rejected with a PermissionError and no state change. A
// second start while a session is active is rejected with
// ErrAlreadyImpersonating.
func (m *Manager) Start(actor, target identity.Identity) (*Session, error) {
	m.mu.Lock()

	if m.session != nil {
		m.mu.Unlock()
		return nil, ErrAlreadyImpersonating
	}

	if actor.IsAnonymous() {
		m.mu.Unlock()
		return nil, ErrNotSignedIn
	}

	if !identity.CanImpersonate(actor.PrimaryRole, target.PrimaryRole) {
		m.mu.Unlock()
		return nil, &PermissionError{ActorRole: actor.PrimaryRole, TargetRole: target.PrimaryRole}
	}

	sess := &Session{
		Real:         actor,
		RealSnapshot: takeSnapshot(actor),
		Presented:    target,
		StartedAt:    time.Now(),
		Active:       true,
	}

	if err := m.store.Save(sess); err != nil {
		// in-memory state stays authoritative for this process lifetime
		log.Warn().Err(err).Msg("failed to persist impersonation session, continuing in memory")
	}

	m.real = actor
	m.session = sess
	m.source = gateway.NewImpersonated(target, m.passthrough)

	log.Info().
		Str("realUser", actor.ID).
		Str("realRole", actor.PrimaryRole.String()).
		Str("targetUser", target.ID).
		Str("targetRole", target.PrimaryRole.String()).
		Msg("impersonation started")

	m.notifyLocked()
	m.mu.Unlock()

	return sess, nil
}

// Exit ends the active session: the persisted record is cleared, the
// passthrough source is restored and the real identity gets its snapshot
// fields back. Calling Exit while Idle is a no-op. A failing remote
// validation never blocks the exit; the condition is logged and local state
// is cleared regardless.
func (m *Manager) Exit(ctx context.Context) {
	m.mu.Lock()

	if m.session == nil {
		m.mu.Unlock()
		return
	}

	sess := m.session

	m.store.Clear()
	m.real = applySnapshot(sess.Real, sess.RealSnapshot)
	m.session = nil
	m.source = m.passthrough

	log.Info().
		Str("realUser", sess.Real.ID).
		Str("targetUser", sess.Presented.ID).
		Msg("impersonation ended")

	m.notifyLocked()
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	// confirm the real session still exists; an expired token is logged,
	// not fatal, the user lands on the sign-in page on the next request
	if _, err := m.passthrough.CurrentIdentity(ctx); err != nil {
		log.Warn().Err(err).Msg("real session could not be restored after impersonation exit")
	}
}

// RefreshFromRemote revalidates the real identity against the remote
// service. While Idle the result becomes the presented identity; while
// Impersonating the presented identity is untouched and only the real one
// is updated. An unreachable service degrades to the anonymous identity
// instead of failing; a missing session is returned to the caller.
func (m *Manager) RefreshFromRemote(ctx context.Context) (identity.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	id, err := m.passthrough.CurrentIdentity(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrNoSession) {
			return identity.Identity{}, err //nolint:wrapcheck
		}

		log.Warn().Err(err).Msg("identity refresh failed, degrading to anonymous")
		id = identity.Anonymous()
	}

	m.mu.Lock()
	m.real = id
	presented := m.presentedLocked()
	m.notifyLocked()
	m.mu.Unlock()

	return presented, nil
}

// SignOut performs a real remote sign-out and clears any active
// impersonation session. The remote call failing does not keep the local
// state signed in.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()

	if m.session != nil {
		m.store.Clear()
		m.session = nil
		m.source = m.passthrough
	}

	m.real = identity.Identity{}
	m.notifyLocked()
	m.mu.Unlock()

	return m.passthrough.SignOut(ctx) //nolint:wrapcheck
}

// notifyLocked snapshots the view and observer list under the lock and
// schedules the callbacks outside it, so observers may call back into the
// manager.
func (m *Manager) notifyLocked() {
	if len(m.observers) == 0 {
		return
	}

	view := m.viewLocked()
	observers := make([]func(View), len(m.observers))
	copy(observers, m.observers)

	go func() {
		for _, fn := range observers {
			fn(view)
		}
	}()
}
