package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/schoolinsights/core/records"
)

// Verifier verifies a username/password pair.
type Verifier interface {
	Verify(username, password string) bool
}

// Directory is a Verifier that can also tell whether a username exists.
// Lookup returns the teacher scope key bound to the username ("" for staff users).
type Directory interface {
	Verifier
	Lookup(username string) (scopeKey string, ok bool)
}

// Matcher compares a stored secret with a supplied password.
type Matcher interface {
	Match(stored, supplied string) bool
}

// PlainMatcher compares plaintext secrets (exact, case-sensitive).
type PlainMatcher struct{}

func (PlainMatcher) Match(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// BcryptMatcher compares bcrypt hashes.
type BcryptMatcher struct{}

func (BcryptMatcher) Match(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// NewMatcher returns the Matcher for a `auth.passwordHashing` setting.
func NewMatcher(hashing string) Matcher {
	if hashing == "bcrypt" {
		return BcryptMatcher{}
	}
	return PlainMatcher{}
}

// HashPassword returns the bcrypt hash to store in a credential file.
func HashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type entry struct {
	secret   string
	scopeKey string
}

type directory struct {
	entries map[string]entry
	matcher Matcher
}

var _ Directory = (*directory)(nil)

// NewStaticDirectory returns the Admin/Principal directory built from a {username: secret} map.
func NewStaticDirectory(users map[string]string, matcher Matcher) Directory {
	dir := &directory{entries: make(map[string]entry, len(users)), matcher: matcher}
	for uname, secret := range users {
		dir.entries[uname] = entry{secret: secret}
	}
	return dir
}

// NewTeacherDirectory returns the Teacher directory built from the credential table.
// When a username appears more than once, the first row wins.
func NewTeacherDirectory(creds []records.Credential, matcher Matcher) Directory {
	dir := &directory{entries: make(map[string]entry, len(creds)), matcher: matcher}
	for _, c := range creds {
		if _, ok := dir.entries[c.Username]; !ok {
			dir.entries[c.Username] = entry{secret: c.Password, scopeKey: c.TeacherID}
		}
	}
	return dir
}

func (dir *directory) Lookup(username string) (string, bool) {
	e, ok := dir.entries[username]
	return e.scopeKey, ok
}

func (dir *directory) Verify(username, password string) bool {
	e, ok := dir.entries[username]
	if !ok {
		return false
	}
	return dir.matcher.Match(e.secret, password)
}
