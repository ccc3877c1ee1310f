package auth

// IsValidRole checks if the role is one of the predefined marketplace roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleClient, RoleProvider, RolePartner, RoleSupport, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles returns every predefined role
func AllRoles() []Role {
	return []Role{
		RoleClient,
		RoleProvider,
		RolePartner,
		RoleSupport,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// ParseRoles parses a list of role strings, dropping invalid entries
func ParseRoles(roleStrs []string) []Role {
	roles := make([]Role, 0, len(roleStrs))
	for _, s := range roleStrs {
		if role, ok := ParseRole(s); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// RolesIntersect reports whether the two role sets share at least one role
func RolesIntersect(a, b []Role) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ra == rb {
				return true
			}
		}
	}
	return false
}
