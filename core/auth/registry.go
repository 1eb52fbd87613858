package auth

import (
	"sync"

	"github.com/google/uuid"
)

// SessionRegistry holds the logged in Sessions of a multi-user process, keyed by session id.
type SessionRegistry struct {
	auth Authenticator

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRegistry(auth Authenticator) *SessionRegistry {
	return &SessionRegistry{auth: auth, sessions: make(map[string]*Session)}
}

// Open logs a new Session in and registers it. The session id is only issued on success.
func (reg *SessionRegistry) Open(username, password, claimedRole string) (string, Identity, error) {
	sess := NewSession(reg.auth)
	id, err := sess.Login(username, password, claimedRole)
	if err != nil {
		return "", Identity{}, err
	}

	sid := uuid.New().String()
	reg.mu.Lock()
	reg.sessions[sid] = sess
	reg.mu.Unlock()
	return sid, id, nil
}

// Get returns the Session `sid` if it is still LoggedIn.
func (reg *SessionRegistry) Get(sid string) (*Session, bool) {
	reg.mu.RLock()
	sess, ok := reg.sessions[sid]
	reg.mu.RUnlock()
	if !ok || sess.State() != LoggedIn {
		return nil, false
	}
	return sess, true
}

// Close logs the Session `sid` out and forgets it.
func (reg *SessionRegistry) Close(sid string) error {
	reg.mu.Lock()
	sess, ok := reg.sessions[sid]
	delete(reg.sessions, sid)
	reg.mu.Unlock()
	if !ok {
		return ErrNotLoggedIn
	}
	sess.Logout()
	return nil
}

func (reg *SessionRegistry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.sessions)
}
