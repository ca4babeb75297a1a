// Package profile provides directory queries over the local profiles table.
package profile

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sparky-messaging/sparky-admin/internal/db/models"
	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

var (
	// ErrProfileNotFound is returned when no profile row matches.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a profile by account id.
func Get(db *gorm.DB, id uuid.UUID) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Profile
	result := db.First(&p, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}

		return nil, result.Error
	}

	return &p, nil
}

// GetByEmail retrieves a profile by sign-in email.
func GetByEmail(db *gorm.DB, email string) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Profile
	result := db.First(&p, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}

		return nil, result.Error
	}

	return &p, nil
}

// List retrieves all active profiles ordered by email.
func List(db *gorm.DB) ([]models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var profiles []models.Profile
	result := db.Where("active = ?", true).Order("email").Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}

	return profiles, nil
}

// Candidates lists the active profiles the actor may impersonate.
//
// The role hierarchy is the permission gate: only strictly lower roles
// qualify. On top of that the directory is narrowed by assignment where one
// applies, so a manager sees their direct reports and a supervisor sees
// their managers plus those managers' users. Admin roles see the whole
// directory below them.
func Candidates(db *gorm.DB, actor *models.Profile) ([]models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if actor == nil {
		return nil, ErrProfileNotFound
	}

	actorRole := identity.ParseRole(actor.Role)

	query := db.Where("active = ? AND id <> ?", true, actor.ID)

	switch actorRole {
	case identity.RoleManager:
		query = query.Where("manager_id = ?", actor.ID)
	case identity.RoleSupervisor:
		query = query.Where(
			"supervisor_id = ? OR manager_id IN (?)",
			actor.ID,
			db.Model(&models.Profile{}).Select("id").Where("supervisor_id = ?", actor.ID),
		)
	case identity.RoleUser, identity.RoleAdmin, identity.RoleSuperAdmin:
		// no assignment narrowing; the role gate below decides
	}

	var profiles []models.Profile
	if result := query.Order("email").Find(&profiles); result.Error != nil {
		return nil, result.Error
	}

	out := profiles[:0]
	for _, p := range profiles {
		if identity.CanImpersonate(actorRole, identity.ParseRole(p.Role)) {
			out = append(out, p)
		}
	}

	return out, nil
}

// Upsert creates or updates a profile row keyed by id.
func Upsert(db *gorm.DB, p *models.Profile) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Save(p).Error
}
