package auth

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/records"
)

// Authenticator turns a (username, password, claimed role) triple into an Identity.
type Authenticator interface {
	Authenticate(username, password, claimedRole string) (Identity, error)
}

// Resolver authenticates Admin/Principal users against the staff directory
// and Teacher users against the teacher directory.
type Resolver struct {
	staff    Directory
	teachers Directory
}

var _ Authenticator = (*Resolver)(nil)

func NewResolver(staff, teachers Directory) *Resolver {
	if staff == nil {
		staff = NewStaticDirectory(nil, PlainMatcher{})
	}
	if teachers == nil {
		teachers = NewTeacherDirectory(nil, PlainMatcher{})
	}
	return &Resolver{staff: staff, teachers: teachers}
}

// NewResolverFromConfig builds the staff directory from the configured static users
// and the teacher directory from the credential table, both using the configured hashing.
func NewResolverFromConfig(conf core.AuthConfig, creds []records.Credential) *Resolver {
	matcher := NewMatcher(conf.PasswordHashing)
	return NewResolver(NewStaticDirectory(conf.StaticUsers, matcher), NewTeacherDirectory(creds, matcher))
}

// Authenticate has no side effect: no lockout, no attempt counter, no audit.
func (r *Resolver) Authenticate(username, password, claimedRole string) (Identity, error) {
	role, err := ParseRole(claimedRole)
	if err != nil {
		return Identity{}, err
	}

	dir := r.staff
	if role == RoleTeacher {
		dir = r.teachers
	}
	scopeKey, ok := dir.Lookup(username)
	if !ok {
		return Identity{}, ErrUnknownUser
	}
	if !dir.Verify(username, password) {
		return Identity{}, ErrBadPassword
	}

	id := Identity{Username: username, Role: role}
	if role == RoleTeacher {
		id.ScopeKey = null.StringFrom(scopeKey)
	}
	return id, nil
}
