package enums

import (
	"fmt"
	"strings"
)

// AppRole is the operator role carried in the access token.
type AppRole string

const (
	AppRoleAdmin AppRole = "admin"
	AppRoleStaff AppRole = "staff"
)

var validAppRoles = []AppRole{
	AppRoleAdmin,
	AppRoleStaff,
}

// String implements fmt.Stringer.
func (r AppRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AppRole.
func (r AppRole) IsValid() bool {
	for _, candidate := range validAppRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseAppRole converts raw input into an AppRole.
func ParseAppRole(value string) (AppRole, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validAppRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app role %q", value)
}
