package identity

import "strings"

// Role is a permission level of a Sparky Messaging account.
type Role string

const (
	// RoleUser is a regular messaging user.
	RoleUser Role = "user"
	// RoleManager manages a set of users.
	RoleManager Role = "manager"
	// RoleSupervisor supervises managers and their users.
	RoleSupervisor Role = "supervisor"
	// RoleAdmin administers a whole tenant.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin is the platform operator role.
	RoleSuperAdmin Role = "super_admin"
)

// hierarchy is the static ordering used for impersonation decisions.
// It is a pure function of the role, never persisted.
var hierarchy = map[Role]int{
	RoleUser:       1,
	RoleSupervisor: 2,
	RoleManager:    3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// ParseRole normalizes a raw role string. Unknown or empty values map to
// RoleUser, matching how the remote profile table defaults the column.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := hierarchy[r]; !ok {
		return RoleUser
	}

	return r
}

// Hierarchy returns the numeric rank of the role, 0 for unknown roles.
func (r Role) Hierarchy() int {
	return hierarchy[r]
}

// Known reports whether the role is one of the defined roles.
func (r Role) Known() bool {
	_, ok := hierarchy[r]
	return ok
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// CanImpersonate reports whether an account with the actor role may present
// itself as an account with the target role. Impersonation is a support tool
// flowing strictly downward in privilege: peers and superiors are never
// impersonatable, which prevents a lower-privileged account from laundering
// itself upward.
func CanImpersonate(actor, target Role) bool {
	return actor.Hierarchy() > target.Hierarchy()
}
