package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("quiz session not found or expired")

// SessionEntry binds a session to its owner and quiz for handler lookups.
type SessionEntry struct {
	ID       string
	UserID   string
	LessonID uint
	Session  *Session

	lastTouched time.Time
}

// SessionStore keeps live sessions in process memory. Each session belongs to
// exactly one user and one service instance; nothing here is persisted, only
// the final (score, total) leaves through the result sink. Idle sessions are
// evicted after the TTL.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*SessionEntry
	ttl     time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		entries: make(map[string]*SessionEntry),
		ttl:     ttl,
	}
}

// Put registers a fresh session and returns its handle.
func (st *SessionStore) Put(userID string, lessonID uint, s *Session) *SessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked()

	entry := &SessionEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		LessonID:    lessonID,
		Session:     s,
		lastTouched: time.Now(),
	}
	st.entries[entry.ID] = entry
	return entry
}

// Get returns the entry when it exists, is owned by userID, and has not
// expired. Ownership is part of the lookup: sessions are never shared.
func (st *SessionStore) Get(id, userID string) (*SessionEntry, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.entries[id]
	if !ok || entry.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if time.Since(entry.lastTouched) > st.ttl {
		delete(st.entries, id)
		return nil, ErrSessionNotFound
	}
	entry.lastTouched = time.Now()
	return entry, nil
}

// Delete drops a session, typically after its result is persisted.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, id)
}

func (st *SessionStore) evictExpiredLocked() {
	now := time.Now()
	for id, entry := range st.entries {
		if now.Sub(entry.lastTouched) > st.ttl {
			delete(st.entries, id)
		}
	}
}
