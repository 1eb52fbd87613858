package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// Role a user may claim at login.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RolePrincipal Role = "Principal"
	RoleTeacher   Role = "Teacher"
)

var (
	Roles = []Role{RoleAdmin, RolePrincipal, RoleTeacher}

	// errors
	ErrInvalidRole = errors.New("invalid role")
)

// ParseRole matches `s` case-insensitively against the known roles.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, role := range Roles {
		if strings.EqualFold(s, string(role)) {
			return role, nil
		}
	}
	return "", ErrInvalidRole
}

// IsStaff reports whether the role sees the whole school (Admin or Principal).
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RolePrincipal
}
