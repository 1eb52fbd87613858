package auth

import "sync"

// State of a Session.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "LoggedIn"
	}
	return "LoggedOut"
}

// Session is the two-state login machine of one user: LoggedOut <-> LoggedIn(Identity).
// Each user owns their own Session; it is safe for concurrent use.
type Session struct {
	auth Authenticator

	mu       sync.RWMutex
	identity *Identity
}

func NewSession(auth Authenticator) *Session {
	return &Session{auth: auth}
}

// Login moves the session to LoggedIn on success.
// On failure the session stays LoggedOut and may be retried without limit.
func (s *Session) Login(username, password, claimedRole string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil {
		return Identity{}, ErrAlreadyLoggedIn
	}
	id, err := s.auth.Authenticate(username, password, claimedRole)
	if err != nil {
		return Identity{}, err
	}
	s.identity = &id
	return id, nil
}

// Logout moves the session to LoggedOut and clears its Identity. Logging out twice is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity != nil {
		return LoggedIn
	}
	return LoggedOut
}

// Identity returns the logged in Identity; ok is false when LoggedOut.
func (s *Session) Identity() (id Identity, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}
