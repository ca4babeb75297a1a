// Package impersonationlog writes and reads the impersonation audit trail.
package impersonationlog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/db/models"
	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

var (
	// ErrLogNotFound is returned when no audit entry matches.
	ErrLogNotFound = errors.New("impersonation log entry not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// RecordStart appends an audit entry for a started impersonation and
// returns it so the caller can close it later via RecordEnd.
func RecordStart(db *gorm.DB, actor, target identity.Identity, startedAt time.Time) (*models.ImpersonationLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	actorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	targetID, err := uuid.Parse(target.ID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	entry := &models.ImpersonationLog{
		ID:          uuid.New(),
		ActorID:     actorID,
		ActorEmail:  actor.Email,
		ActorRole:   actor.PrimaryRole.String(),
		TargetID:    targetID,
		TargetEmail: target.Email,
		TargetRole:  target.PrimaryRole.String(),
		StartedAt:   startedAt,
	}

	if result := db.Create(entry); result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// RecordEnd closes the most recent open entry for the actor. An exit
// without a matching open entry is not an error; the page may have been
// reloaded since the start was logged.
func RecordEnd(db *gorm.DB, actorID uuid.UUID, endedAt time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	var entry models.ImpersonationLog
	result := db.Where("actor_id = ? AND ended_at IS NULL", actorID).
		Order("started_at DESC").
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}

		return result.Error
	}

	entry.EndedAt = &endedAt

	return db.Save(&entry).Error
}

// ListRecent returns the newest audit entries, most recent first.
func ListRecent(db *gorm.DB, limit int) ([]models.ImpersonationLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if limit <= 0 {
		limit = 50
	}

	var entries []models.ImpersonationLog
	result := db.Order("started_at DESC").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
