package impersonationlog

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/db/models"
	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(&models.ImpersonationLog{}), "failed to migrate test database")

	return db
}

func testActor() identity.Identity {
	return identity.Identity{
		ID:          uuid.NewString(),
		Email:       "ada@sparky.example",
		DisplayName: "Ada Lovelace",
		PrimaryRole: identity.RoleAdmin,
	}
}

func testTarget() identity.Identity {
	return identity.Identity{
		ID:          uuid.NewString(),
		Email:       "uma@sparky.example",
		DisplayName: "Uma Thurl",
		PrimaryRole: identity.RoleUser,
	}
}

func TestRecordStartAndEnd(t *testing.T) {
	db := setupTestDB(t)
	actor := testActor()

	entry, err := RecordStart(db, actor, testTarget(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "admin", entry.ActorRole)
	assert.Nil(t, entry.EndedAt)

	actorID, err := uuid.Parse(actor.ID)
	require.NoError(t, err)

	require.NoError(t, RecordEnd(db, actorID, time.Now()))

	entries, err := ListRecent(db, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].EndedAt)
}

func TestRecordEndWithoutOpenEntry(t *testing.T) {
	db := setupTestDB(t)

	// a page reload can lose the open entry; exit must still succeed
	assert.NoError(t, RecordEnd(db, uuid.New(), time.Now()))
}

func TestRecordStartRejectsBadIDs(t *testing.T) {
	db := setupTestDB(t)

	actor := testActor()
	actor.ID = "anonymous"

	_, err := RecordStart(db, actor, testTarget(), time.Now())
	assert.Error(t, err)
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	first, err := RecordStart(db, testActor(), testTarget(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	second, err := RecordStart(db, testActor(), testTarget(), time.Now())
	require.NoError(t, err)

	entries, err := ListRecent(db, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
}

func TestNilDB(t *testing.T) {
	_, err := RecordStart(nil, testActor(), testTarget(), time.Now())
	assert.ErrorIs(t, err, ErrDBNil)

	assert.ErrorIs(t, RecordEnd(nil, uuid.New(), time.Now()), ErrDBNil)

	_, err = ListRecent(nil, 5)
	assert.ErrorIs(t, err, ErrDBNil)
}
