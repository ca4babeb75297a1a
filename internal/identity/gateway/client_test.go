package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-api-key", 2*time.Second)
	c.RestoreToken("test-access-token", "", time.Now().Add(time.Hour))

	return c
}

func TestClientGetSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u-1","email":"ada@sparky.example"}`))
	})

	sess, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "ada@sparky.example", sess.Email)
}

func TestClientGetSessionUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClientGetSessionWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected without a token")
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-api-key", time.Second)

	_, err := c.GetSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClientGetProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "eq.u-1", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"u-1","email":"ada@sparky.example","first_name":"Ada","last_name":"Lovelace","role":"admin"}]`))
	})

	profile, err := c.GetProfile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "admin", profile.Role)
}

func TestClientGetProfileNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestClientRemoteUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetSession(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestClientSignOutDropsTokenOnFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.SignOut(context.Background())
	require.Error(t, err)

	// even after a failed remote call the token must be gone
	_, err = c.GetSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

type fakeGateway struct {
	session *Session
	profile *identity.Profile
	err     error

	signOutCalls int
}

func (f *fakeGateway) GetSession(context.Context) (*Session, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.session, nil
}

func (f *fakeGateway) GetProfile(context.Context, string) (*identity.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return nil, ErrProfileNotFound
	}

	return f.profile, nil
}

func (f *fakeGateway) SignOut(context.Context) error {
	f.signOutCalls++

	return f.err
}

func TestPassthroughCurrentIdentity(t *testing.T) {
	gw := &fakeGateway{
		session: &Session{UserID: "u-1", Email: "ada@sparky.example"},
		profile: &identity.Profile{
			ID:        "u-1",
			Email:     "ada@sparky.example",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      "admin",
		},
	}

	id, err := NewPassthrough(gw).CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", id.DisplayName)
	assert.Equal(t, identity.RoleAdmin, id.PrimaryRole)
}

func TestPassthroughMissingProfileFallsBackToSession(t *testing.T) {
	gw := &fakeGateway{session: &Session{UserID: "u-2", Email: "grace@sparky.example"}}

	id, err := NewPassthrough(gw).CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-2", id.ID)
	assert.Equal(t, "grace", id.DisplayName)
	assert.Equal(t, identity.RoleUser, id.PrimaryRole)
}

func TestImpersonatedAnswersFromCache(t *testing.T) {
	gw := &fakeGateway{err: ErrRemoteUnavailable}
	real := NewPassthrough(gw)

	presented := identity.Identity{ID: "u-9", Email: "kay@sparky.example", DisplayName: "Kay", PrimaryRole: identity.RoleUser}
	src := NewImpersonated(presented, real)

	id, err := src.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, presented, id)

	// sign-out always goes to the real source
	_ = src.SignOut(context.Background())
	assert.Equal(t, 1, gw.signOutCalls)
}
