package session

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Store. Expired sessions are dropped on read.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{sessions: map[string]Session{}, now: time.Now}
}

func (m *Memory) Put(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *Memory) Get(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.Expired(m.now()) {
		delete(m.sessions, token)
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *Memory) Close() error { return nil }
