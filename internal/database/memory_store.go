package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pageza/pantrychef/internal/types"
)

// MemorySessionStore keeps sessions in process memory. State is lost on restart.
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]memoryEntry
	locks     map[string]struct{}
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// memoryEntry is a serialized session and the time it was last saved
type memoryEntry struct {
	data    []byte
	savedAt time.Time
}

// NewMemorySessionStore creates a store whose sessions expire after ttl of
// inactivity. A zero ttl keeps sessions forever.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		locks:    make(map[string]struct{}),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemorySessionStore) expired(e memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.savedAt) > s.ttl
}

// Get returns a copy of the stored session, or an empty one
func (s *MemorySessionStore) Get(_ context.Context, id string) (*types.Session, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok && s.expired(e, s.now()) {
		delete(s.sessions, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return types.NewSession(id), nil
	}

	// Stored sessions are serialized so callers never share slices with the store.
	var session types.Session
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores a copy of the session and drops expired sessions at most once per ttl
func (s *MemorySessionStore) Save(_ context.Context, session *types.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sessions[session.ID] = memoryEntry{data: data, savedAt: now}
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		s.sweepLocked(now)
	}
	return nil
}

// sweepLocked removes every expired session. s.mu must be held.
func (s *MemorySessionStore) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

// Acquire takes the in-flight lock for a session
func (s *MemorySessionStore) Acquire(_ context.Context, id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.locks[id]; held {
		return nil, types.ErrSessionBusy
	}
	s.locks[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.locks, id)
			s.mu.Unlock()
		})
	}, nil
}

// Len returns the number of stored sessions
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
