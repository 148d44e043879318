package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/observability"
)

// DefaultIdleTTL is how long a session may go unused before Cleanup drops it.
const DefaultIdleTTL = 30 * time.Minute

// Store is the interface for session registries.
type Store interface {
	// Create registers a new idle session.
	Create(ctx context.Context) (*Session, error)

	// Get returns the session with id, or SESSION_NOT_FOUND.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes sessions idle for longer than the store's TTL and
	// returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Len returns the number of live sessions.
	Len() int
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart.
type MemoryStore struct {
	opts Options
	ttl  time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store whose sessions are created with opts and
// expire after ttl of inactivity. A ttl <= 0 uses DefaultIdleTTL.
func NewMemoryStore(opts Options, ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &MemoryStore{
		opts:     opts,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create implements Store.
func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	s := NewWithID(uuid.NewString(), m.opts)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	n := len(m.sessions)
	m.mu.Unlock()
	observability.Server().OnSessionsChanged(ctx, n)
	return s, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if ok {
		s.Clear()
		observability.Server().OnSessionsChanged(ctx, n)
	}
	return nil
}

// Cleanup implements Store.
func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()
	if removed > 0 {
		observability.Server().OnSessionsChanged(ctx, n)
	}
	return removed, nil
}

// Len implements Store.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
