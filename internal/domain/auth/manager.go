package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"regexp"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkova/clouddisk/internal/infrastructure/monitoring"
	"github.com/avolkova/clouddisk/internal/shared/id"
)

// Errors surfaced to the HTTP layer. Messages stay generic; details about
// which half of a credential pair failed are never revealed.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrWeakPassword       = errors.New("password too short")
	ErrBadUsername        = errors.New("invalid username")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,64}$`)

const minPasswordLength = 8

// User is a registered account. The ID doubles as the storage root suffix
// (user_{id}), which is why it is a bare ULID.
type User struct {
	ID           id.UserID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an active login.
type Session struct {
	ID        id.SessionID `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	Token     string       `json:"token"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Manager implements the authentication collaborator: it registers users,
// issues bearer-token sessions and verifies them. The storage engine never
// sees credentials, only the verified user ID this manager produces.
type Manager struct {
	ttl      time.Duration
	users    sync.Map // username -> *User
	sessions sync.Map // token -> *Session
	metrics  *monitoring.Metrics
}

// NewManager creates an auth manager issuing sessions with the given TTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{ttl: ttl}
}

// WithMetrics attaches a metrics collector. Optional.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Register creates a new account. Usernames are unique; the winning call of
// two concurrent registrations owns the name and the loser observes
// ErrUserExists.
func (m *Manager) Register(username, password, email string) (*User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrBadUsername
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           id.NewUserID(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		CreatedAt:    time.Now(),
	}
	if _, loaded := m.users.LoadOrStore(username, user); loaded {
		return nil, ErrUserExists
	}
	return user, nil
}

// Login verifies credentials and issues a new session.
func (m *Manager) Login(username, password string) (*Session, error) {
	v, ok := m.users.Load(username)
	if !ok {
		m.recordLogin("failure")
		return nil, ErrInvalidCredentials
	}
	user := v.(*User)

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		m.recordLogin("failure")
		return nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &Session{
		ID:        id.NewSessionID(),
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.sessions.Store(token, session)
	m.recordLogin("success")
	if m.metrics != nil {
		m.metrics.SessionsActive.Inc()
	}
	return session, nil
}

// Logout ends the session carrying the token. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	if _, loaded := m.sessions.LoadAndDelete(token); loaded && m.metrics != nil {
		m.metrics.SessionsActive.Dec()
	}
}

// Verify resolves a bearer token to its user, expiring stale sessions.
func (m *Manager) Verify(token string) (*User, error) {
	v, ok := m.sessions.Load(token)
	if !ok {
		return nil, ErrUnauthenticated
	}
	session := v.(*Session)
	if time.Now().After(session.ExpiresAt) {
		m.Logout(token)
		return nil, ErrUnauthenticated
	}
	return m.userByID(session.UserID)
}

func (m *Manager) userByID(userID id.UserID) (*User, error) {
	var found *User
	m.users.Range(func(_, v any) bool {
		u := v.(*User)
		if u.ID == userID {
			found = u
			return false
		}
		return true
	})
	if found == nil {
		return nil, ErrUnauthenticated
	}
	return found, nil
}

func (m *Manager) recordLogin(status string) {
	if m.metrics != nil {
		m.metrics.RecordLogin(status)
	}
}

// generateToken creates a cryptographically random session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
