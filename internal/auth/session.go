package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is server-held authentication state correlated with a browser via
// an opaque cookie-backed ID.
type Session struct {
	ID        string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// SessionStore is injected into the HTTP layer so handlers never hold
// ambient session state.
type SessionStore interface {
	Create(acct Account) Session
	Get(id string) (Session, bool)
	Delete(id string)
}

// MemorySessions keeps sessions in process memory with a fixed inactivity
// window: every successful Get slides the expiry forward.
type MemorySessions struct {
	mu       sync.Mutex
	lifetime time.Duration
	sessions map[string]Session
}

func NewMemorySessions(lifetime time.Duration) *MemorySessions {
	return &MemorySessions{
		lifetime: lifetime,
		sessions: make(map[string]Session),
	}
}

func (m *MemorySessions) Create(acct Account) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := Session{
		ID:        uuid.New().String(),
		Email:     acct.Email,
		Name:      acct.Name,
		Role:      acct.Role,
		ExpiresAt: time.Now().Add(m.lifetime),
	}
	m.sessions[sess.ID] = sess
	return sess
}

func (m *MemorySessions) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, false
	}
	sess.ExpiresAt = time.Now().Add(m.lifetime)
	m.sessions[id] = sess
	return sess, true
}

func (m *MemorySessions) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
