package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	m := NewManager(time.Hour)

	user, err := m.Register("alice", "correct horse battery", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	session, err := m.Login("alice", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.UserID)

	verified, err := m.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestRegisterValidation(t *testing.T) {
	m := NewManager(time.Hour)

	_, err := m.Register("ab", "long enough pw", "")
	assert.ErrorIs(t, err, ErrBadUsername)

	_, err = m.Register("has space", "long enough pw", "")
	assert.ErrorIs(t, err, ErrBadUsername)

	_, err = m.Register("bob", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterDuplicate(t *testing.T) {
	m := NewManager(time.Hour)

	_, err := m.Register("carol", "password123", "")
	require.NoError(t, err)

	_, err = m.Register("carol", "otherpassword", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	m := NewManager(time.Hour)

	_, err := m.Register("dave", "password123", "")
	require.NoError(t, err)

	_, err = m.Login("dave", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	m := NewManager(time.Hour)

	_, err := m.Register("erin", "password123", "")
	require.NoError(t, err)
	session, err := m.Login("erin", "password123")
	require.NoError(t, err)

	m.Logout(session.Token)

	_, err = m.Verify(session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyExpiredSession(t *testing.T) {
	m := NewManager(time.Nanosecond)

	_, err := m.Register("frank", "password123", "")
	require.NoError(t, err)
	session, err := m.Login("frank", "password123")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	_, err = m.Verify(session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyUnknownToken(t *testing.T) {
	m := NewManager(time.Hour)

	_, err := m.Verify("no-such-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
