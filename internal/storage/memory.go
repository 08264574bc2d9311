package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxSessions = 1000

// InMemoryStore is a thread-safe session store with idle expiry.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewInMemoryStore constructs an empty store. Sessions idle for longer than
// ttl are dropped; a non-positive ttl keeps them until evicted for space.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the session with the given id.
func (s *InMemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return Session{}, ErrNotFound
	}
	return clone(session), nil
}

// Save stores the session, assigning an ID when it has none.
func (s *InMemoryStore) Save(_ context.Context, session Session) (Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.UpdatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	if _, exists := s.sessions[session.ID]; !exists && len(s.sessions) >= maxSessions {
		s.evictOldestLocked()
	}
	s.sessions[session.ID] = clone(session)
	return session, nil
}

// Delete removes a session by ID.
func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

// Close satisfies the Store interface.
func (s *InMemoryStore) Close() {}

func (s *InMemoryStore) expired(session Session) bool {
	return s.ttl > 0 && s.now().Sub(session.UpdatedAt) >= s.ttl
}

func (s *InMemoryStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
		}
	}
}

func (s *InMemoryStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, session := range s.sessions {
		if oldestID == "" || session.UpdatedAt.Before(oldest) {
			oldestID, oldest = id, session.UpdatedAt
		}
	}
	delete(s.sessions, oldestID)
}

func clone(session Session) Session {
	if session.Messages != nil {
		session.Messages = append([]Message(nil), session.Messages...)
	}
	return session
}
