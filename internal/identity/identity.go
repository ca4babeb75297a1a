package identity

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Identity is the normalized view of a user account.
type Identity struct {
	// ID is the opaque stable identifier assigned by the identity service.
	ID string `json:"id" validate:"required"`
	// Email is the account's sign-in email address.
	Email string `json:"email" validate:"required,email"`
	// DisplayName is derived once at the boundary, see FromProfile.
	DisplayName string `json:"displayName"`
	// PrimaryRole is the account's main permission level.
	PrimaryRole Role `json:"primaryRole" validate:"required"`
	// SecondaryRole is an optional second permission level the account can
	// switch views between. Never equal to PrimaryRole.
	SecondaryRole Role `json:"secondaryRole,omitempty"`
}

// Profile is the raw shape returned by the identity service for a user id.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DisplayName   string `json:"display_name"`
	Role          string `json:"role"`
	SecondaryRole string `json:"secondary_role"`
}

var validate = validator.New()

// FromProfile converts a raw remote profile into an Identity.
// The display-name fallback chain (explicit name, first+last, email
// local-part) is applied here and nowhere else.
func FromProfile(p Profile) Identity {
	id := Identity{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: deriveDisplayName(p.DisplayName, p.FirstName, p.LastName, p.Email),
		PrimaryRole: ParseRole(p.Role),
	}

	if p.SecondaryRole != "" {
		id.SecondaryRole = ParseRole(p.SecondaryRole)
	}

	// a secondary role equal to the primary carries no information, drop it
	if strings.EqualFold(string(id.SecondaryRole), string(id.PrimaryRole)) {
		id.SecondaryRole = ""
	}

	return id
}

// Anonymous is the degraded identity shown when the remote service can not
// be reached. It renders as a generic signed-out view instead of blocking
// the page.
func Anonymous() Identity {
	return Identity{
		ID:          "anonymous",
		DisplayName: "Unknown User",
		PrimaryRole: RoleUser,
	}
}

// IsAnonymous reports whether this is the degraded placeholder identity.
func (i Identity) IsAnonymous() bool {
	return i.ID == "anonymous" || i.ID == ""
}

// Validate checks the identity before it is persisted anywhere.
func (i Identity) Validate() error {
	if err := validate.Struct(i); err != nil {
		return err //nolint:wrapcheck
	}

	if i.SecondaryRole != "" && strings.EqualFold(string(i.SecondaryRole), string(i.PrimaryRole)) {
		return ErrSecondaryEqualsPrimary
	}

	return nil
}

func deriveDisplayName(displayName, firstName, lastName, email string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}

	if name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)); name != "" {
		return name
	}

	// fall back to the email local-part
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}

	return email
}
