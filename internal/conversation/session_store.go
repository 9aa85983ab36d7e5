package conversation

import (
	"context"
	"sync"
	"time"
)

// SessionStore maps a user identifier to that user's conversation session.
type SessionStore interface {
	// Get returns the stored session, creating and storing a main-menu
	// session on first contact.
	Get(ctx context.Context, userID string) (*Session, error)
	// Set replaces the stored session for userID.
	Set(ctx context.Context, userID string, session *Session) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// MemoryStoreOption customizes a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithIdleTTL expires sessions that have not been written for ttl.
// A zero ttl keeps sessions for the lifetime of the process.
func WithIdleTTL(ttl time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[userID]; ok && !s.expired(session) {
		copied := *session
		return &copied, nil
	}
	session := &Session{UserID: userID, State: StateMainMenu, UpdatedAt: s.now().UTC()}
	s.sessions[userID] = session
	copied := *session
	return &copied, nil
}

func (s *MemoryStore) Set(_ context.Context, userID string, session *Session) error {
	if session == nil {
		return nil
	}
	stored := *session
	stored.UserID = userID
	stored.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.sessions[userID] = &stored
	s.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	if s.idleTTL == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if s.idleTTL == 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.Sweep()
			if onSweep != nil && removed > 0 {
				onSweep(removed)
			}
		}
	}
}

// expired must be called with mu held.
func (s *MemoryStore) expired(session *Session) bool {
	return s.idleTTL > 0 && s.now().Sub(session.UpdatedAt) > s.idleTTL
}
