package auth

import "github.com/volatiletech/null/v8"

// Identity is the result of a successful authentication.
// ScopeKey is null for Admin/Principal and holds the teacher_id for Teacher.
type Identity struct {
	Username string      `json:"username"`
	Role     Role        `json:"role"`
	ScopeKey null.String `json:"scope_key"`
}

// IsScoped reports whether the identity may only see the rows of one teacher.
func (id Identity) IsScoped() bool {
	return id.Role == RoleTeacher
}
