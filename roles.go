package cms

// Role is an operator role. The backend knows exactly two tiers: admin
// and super_admin. Resource endpoints accept admin and above, operator
// management requires super_admin.
type Role string

const (
	// RoleAdmin can manage authors and posts.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin can additionally manage operator accounts.
	RoleSuperAdmin Role = "super_admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if this role meets the minimum required level
func (r Role) IsAtLeast(minRole Role) bool {
	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

var roleHierarchy = map[Role]int{
	RoleAdmin:      0,
	RoleSuperAdmin: 1,
}

// AllRoles returns the predefined roles in hierarchical order
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleSuperAdmin}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
