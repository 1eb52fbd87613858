package auth

import "github.com/pkg/errors"

var (
	ErrUnknownUser     = errors.New("unknown user")
	ErrBadPassword     = errors.New("bad password")
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrNotLoggedIn     = errors.New("not logged in")
)

// IsAuthError reports whether `err` is a recoverable authentication failure.
func IsAuthError(err error) bool {
	switch errors.Cause(err) {
	case ErrUnknownUser, ErrBadPassword, ErrInvalidRole:
		return true
	}
	return false
}
