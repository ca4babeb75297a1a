package impersonation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

func testAdmin() identity.Identity {
	return identity.Identity{
		ID:          "admin-1",
		Email:       "ada@sparky.example",
		DisplayName: "Ada Lovelace",
		PrimaryRole: identity.RoleAdmin,
	}
}

func testUser() identity.Identity {
	return identity.Identity{
		ID:          "user-1",
		Email:       "uma@sparky.example",
		DisplayName: "Uma Thurl",
		PrimaryRole: identity.RoleUser,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(memory.New(), 0)

	in := &Session{
		Real:         testAdmin(),
		RealSnapshot: takeSnapshot(testAdmin()),
		Presented:    testUser(),
		StartedAt:    time.Now().Truncate(time.Millisecond),
		Active:       true,
	}
	require.NoError(t, store.Save(in))

	out := store.Load()
	require.NotNil(t, out)
	assert.Equal(t, in.Real.ID, out.Real.ID)
	assert.Equal(t, in.Presented.ID, out.Presented.ID)
	assert.Equal(t, in.StartedAt.UnixMilli(), out.StartedAt.UnixMilli())
	assert.True(t, out.Active)
}

func TestStoreLoadAbsent(t *testing.T) {
	store := NewStore(memory.New(), 0)

	assert.Nil(t, store.Load())
}

func TestStoreLoadMalformedClears(t *testing.T) {
	backend := memory.New()
	require.NoError(t, backend.Set(storeKey, []byte("{not json"), 0))

	store := NewStore(backend, 0)
	assert.Nil(t, store.Load())

	raw, err := backend.Get(storeKey)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStoreLoadStaleClears(t *testing.T) {
	backend := memory.New()

	raw, err := json.Marshal(record{
		RealIdentity:     testAdmin(),
		ImpersonatedUser: testUser(),
		Timestamp:        time.Now().Add(-25 * time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	require.NoError(t, backend.Set(storeKey, raw, 0))

	store := NewStore(backend, 24*time.Hour)
	assert.Nil(t, store.Load())

	stored, err := backend.Get(storeKey)
	require.NoError(t, err)
	assert.Empty(t, stored, "stale record must be cleared as a side effect")
}

func TestStoreLoadIgnoresUnknownFields(t *testing.T) {
	backend := memory.New()

	raw := []byte(`{"realIdentity":{"id":"admin-1","email":"ada@sparky.example","primaryRole":"admin"},` +
		`"impersonatedUser":{"id":"user-1","email":"uma@sparky.example","primaryRole":"user"},` +
		`"timestamp":` + timestampNow() + `,"futureField":{"nested":true}}`)
	require.NoError(t, backend.Set(storeKey, raw, 0))

	out := NewStore(backend, 0).Load()
	require.NotNil(t, out)
	assert.Equal(t, "user-1", out.Presented.ID)
}

func TestStoreClearIdempotent(t *testing.T) {
	store := NewStore(memory.New(), 0)

	store.Clear()
	store.Clear()
	assert.Nil(t, store.Load())
}

func timestampNow() string {
	raw, _ := json.Marshal(time.Now().UnixMilli())

	return string(raw)
}
