package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns the live sessions, keyed by session id. Sessions of different
// operators never share state; concurrent sessions each see their own caches
// and histories.
type Manager struct {
	mu       sync.Mutex
	caps     Caps
	sessions map[string]*Session
}

func NewManager(caps Caps) *Manager {
	return &Manager{caps: caps, sessions: make(map[string]*Session)}
}

// Create starts a new session for an operator and returns it.
func (m *Manager) Create(actor string) *Session {
	s := New(uuid.NewString(), actor, m.caps)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
