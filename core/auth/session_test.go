package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	sess := NewSession(newTestResolver())
	assert.Equal(t, LoggedOut, sess.State())

	// failures leave the session logged out, retries are unlimited
	for i := 0; i < 5; i++ {
		_, err := sess.Login("admin", "wrong", "Admin")
		assert.Equal(t, ErrBadPassword, err)
		assert.Equal(t, LoggedOut, sess.State())
	}
	_, ok := sess.Identity()
	assert.False(t, ok)

	id, err := sess.Login("admin", "admin123", "Admin")
	require.NoError(t, err)
	assert.Equal(t, LoggedIn, sess.State())
	got, ok := sess.Identity()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, err = sess.Login("T001", "9593", "Teacher")
	assert.Equal(t, ErrAlreadyLoggedIn, err)
	got, _ = sess.Identity()
	assert.Equal(t, RoleAdmin, got.Role)

	sess.Logout()
	assert.Equal(t, LoggedOut, sess.State())
	_, ok = sess.Identity()
	assert.False(t, ok)
	sess.Logout()
	assert.Equal(t, LoggedOut, sess.State())

	id, err = sess.Login("T001", "9593", "Teacher")
	require.NoError(t, err)
	assert.Equal(t, "T001", id.ScopeKey.String)
	assert.Equal(t, "LoggedIn", sess.State().String())
}

func TestSessionRegistry(t *testing.T) {
	reg := NewSessionRegistry(newTestResolver())

	_, _, err := reg.Open("admin", "nope", "Admin")
	assert.Equal(t, ErrBadPassword, err)
	assert.Equal(t, 0, reg.Len())

	adminSID, admin, err := reg.Open("admin", "admin123", "Admin")
	require.NoError(t, err)
	teacherSID, teacher, err := reg.Open("T001", "9593", "Teacher")
	require.NoError(t, err)
	assert.NotEqual(t, adminSID, teacherSID)
	assert.Equal(t, 2, reg.Len())

	sess, ok := reg.Get(adminSID)
	require.True(t, ok)
	got, _ := sess.Identity()
	assert.Equal(t, admin, got)

	sess, ok = reg.Get(teacherSID)
	require.True(t, ok)
	got, _ = sess.Identity()
	assert.Equal(t, teacher, got)

	require.NoError(t, reg.Close(adminSID))
	_, ok = reg.Get(adminSID)
	assert.False(t, ok)
	assert.Equal(t, ErrNotLoggedIn, reg.Close(adminSID))
	assert.Equal(t, 1, reg.Len())

	_, ok = reg.Get("unknown")
	assert.False(t, ok)
}

func TestSessionRegistry_concurrent(t *testing.T) {
	reg := NewSessionRegistry(newTestResolver())

	var wg sync.WaitGroup
	sids := make([]string, 20)
	for i := range sids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid, _, err := reg.Open("T001", "9593", "Teacher")
			assert.NoError(t, err)
			sids[i] = sid
		}(i)
	}
	wg.Wait()
	assert.Equal(t, len(sids), reg.Len())

	for _, sid := range sids {
		wg.Add(1)
		go func(sid string) {
			defer wg.Done()
			assert.NoError(t, reg.Close(sid))
		}(sid)
	}
	wg.Wait()
	assert.Equal(t, 0, reg.Len())
}
