package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager tracks at most one live session per user. Starting a new session
// abandons the previous one, which also cancels its countdown so a stray
// tick cannot touch a discarded controller.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Controller)}
}

func (m *Manager) Put(userID uuid.UUID, c *Controller) {
	m.mu.Lock()
	prev := m.sessions[userID]
	m.sessions[userID] = c
	m.mu.Unlock()

	if prev != nil {
		prev.Abandon()
	}
}

func (m *Manager) Get(userID uuid.UUID) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[userID]
	return c, ok
}

// Remove drops the user's session if it is the given controller. A stale
// completion (e.g. a timer firing for an already-replaced session) leaves
// the current session alone.
func (m *Manager) Remove(userID uuid.UUID, c *Controller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[userID] == c {
		delete(m.sessions, userID)
	}
}

// Abandon tears down and forgets the user's session, if any.
func (m *Manager) Abandon(userID uuid.UUID) bool {
	m.mu.Lock()
	c, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		c.Abandon()
	}
	return ok
}
