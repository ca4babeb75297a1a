package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

// Profile is the local directory row for a Sparky Messaging account.
// The identity service remains the authority for sessions; this table mirrors
// the profile fields the console needs for directory listings and
// impersonation candidate selection.
type Profile struct {
	// ID matches the account id issued by the identity service.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Email is the account's sign-in address.
	Email string `gorm:"size:255;uniqueIndex;not null"`
	// FirstName is the account holder's given name.
	FirstName string `gorm:"size:100"`
	// LastName is the account holder's family name.
	LastName string `gorm:"size:100"`
	// DisplayName is an optional explicit display name overriding the
	// first+last derivation.
	DisplayName string `gorm:"size:200"`
	// Role is the primary permission level.
	Role string `gorm:"size:50;not null;default:'user';index"`
	// SecondaryRole is an optional second permission level, never equal to Role.
	SecondaryRole string `gorm:"size:50"`
	// ManagerID points at the manager this account reports to, if any.
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	// SupervisorID points at the supervisor overseeing this account's manager.
	SupervisorID *uuid.UUID `gorm:"type:uuid;index"`
	// Active indicates whether the account may sign in.
	Active bool `gorm:"default:true"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time
}

// TableName matches the identity service's table so both read the same rows.
func (Profile) TableName() string {
	return "profiles"
}

// Identity converts the directory row into the normalized identity shape.
func (p *Profile) Identity() identity.Identity {
	return identity.FromProfile(identity.Profile{
		ID:            p.ID.String(),
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		DisplayName:   p.DisplayName,
		Role:          p.Role,
		SecondaryRole: p.SecondaryRole,
	})
}
