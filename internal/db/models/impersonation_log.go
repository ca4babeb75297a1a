package models

import (
	"time"

	"github.com/google/uuid"
)

// ImpersonationLog is the audit trail row written whenever a support
// impersonation starts or ends. Rows are append-only; EndedAt is the single
// field updated after creation.
type ImpersonationLog struct {
	// ID is the unique identifier of the audit entry.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// ActorID is the real signed-in account performing the impersonation.
	ActorID uuid.UUID `gorm:"type:uuid;not null;index"`
	// ActorEmail is denormalized so the trail survives account deletion.
	ActorEmail string `gorm:"size:255;not null"`
	// ActorRole is the actor's primary role at start time.
	ActorRole string `gorm:"size:50;not null"`
	// TargetID is the impersonated account.
	TargetID uuid.UUID `gorm:"type:uuid;not null;index"`
	// TargetEmail is denormalized like ActorEmail.
	TargetEmail string `gorm:"size:255;not null"`
	// TargetRole is the target's primary role at start time.
	TargetRole string `gorm:"size:50;not null"`
	// StartedAt is when the impersonation began.
	StartedAt time.Time `gorm:"not null;index"`
	// EndedAt is when the impersonation ended, nil while still active.
	EndedAt *time.Time
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
}

// TableName overrides GORM's default pluralization.
func (ImpersonationLog) TableName() string {
	return "impersonation_logs"
}
