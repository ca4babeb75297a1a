package impersonation

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

// storeKey is the single well-known key holding the persisted session.
const storeKey = "impersonation_session"

// defaultMaxAge is the retention window after which a persisted session is
// treated as if it never existed.
const defaultMaxAge = 24 * time.Hour

// record is the wire shape of a persisted session. Unknown extra fields in
// stored data are ignored on load for forward compatibility.
type record struct {
	RealIdentity         identity.Identity `json:"realIdentity"`
	RealIdentitySnapshot Snapshot          `json:"realIdentitySnapshot"`
	ImpersonatedUser     identity.Identity `json:"impersonatedUser"`
	// Timestamp is the session start in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Store persists at most one impersonation session in a storage backend.
// Storage failures are logged and treated as "no session"; the in-memory
// state held by the Manager stays the source of truth for the process.
type Store struct {
	storage fiber.Storage
	maxAge  time.Duration
}

// NewStore wraps a storage backend. A non-positive maxAge falls back to the
// 24 hour default.
func NewStore(storage fiber.Storage, maxAge time.Duration) *Store {
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}

	return &Store{storage: storage, maxAge: maxAge}
}

// Load reads the persisted session. It returns nil when no session exists,
// when the stored data can not be parsed, or when the record is older than
// the retention window; in the latter two cases the key is cleared so the
// bad record is not read again. Load never fails.
func (s *Store) Load() *Session {
	raw, err := s.storage.Get(storeKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read impersonation record, treating as absent")
		return nil
	}

	if len(raw) == 0 {
		return nil
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Warn().Err(err).Msg("malformed impersonation record, clearing")
		s.Clear()

		return nil
	}

	startedAt := time.UnixMilli(rec.Timestamp)
	if time.Since(startedAt) > s.maxAge {
		// stale records are dropped silently, not surfaced to the user
		log.Debug().Time("startedAt", startedAt).Msg("stale impersonation record, clearing")
		s.Clear()

		return nil
	}

	return &Session{
		Real:         rec.RealIdentity,
		RealSnapshot: rec.RealIdentitySnapshot,
		Presented:    rec.ImpersonatedUser,
		StartedAt:    startedAt,
		Active:       true,
	}
}

// Save overwrites the persisted session in a single write.
func (s *Store) Save(sess *Session) error {
	raw, err := json.Marshal(record{
		RealIdentity:         sess.Real,
		RealIdentitySnapshot: sess.RealSnapshot,
		ImpersonatedUser:     sess.Presented,
		Timestamp:            sess.StartedAt.UnixMilli(),
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.storage.Set(storeKey, raw, s.maxAge) //nolint:wrapcheck
}

// Clear removes the persisted session. Clearing when nothing is stored is a
// no-op; storage errors are logged and swallowed.
func (s *Store) Clear() {
	if err := s.storage.Delete(storeKey); err != nil {
		log.Warn().Err(err).Msg("failed to clear impersonation record")
	}
}
