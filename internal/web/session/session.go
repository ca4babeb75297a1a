// Package session stores the browser session for the console itself:
// which account is signed in and the tokens needed to act on its behalf
// against the identity service.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

// Store is the global session store instance.
var Store fiber.Storage

// Data is the per-browser session state.
type Data struct {
	// Identity is the real signed-in identity, cached at login time.
	Identity identity.Identity
	// AccessToken and RefreshToken are the identity service tokens issued
	// at sign-in, re-armed into the gateway client on each request.
	AccessToken  string
	RefreshToken string
	// TokenExpiry is when AccessToken stops being valid.
	TokenExpiry time.Time
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return Store.Set(sessionID, out, exp) //nolint:wrapcheck
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Get(sessionID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return json.Unmarshal(byteData, s) //nolint:wrapcheck
}

// Delete removes the session for the given session ID.
func Delete(sessionID string) error {
	return Store.Delete(sessionID) //nolint:wrapcheck
}

// Init initializes the session store with the provided storage backend.
func Init(storage fiber.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = storage
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(b), nil
}
