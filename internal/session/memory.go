package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions are never
// evicted; the per-conversation footprint is two strings, which stays
// negligible for the audience this bot serves. State is lost on
// restart, which only costs users a repeated question.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

// Get returns the session for the conversation.
func (s *MemoryStore) Get(_ context.Context, conversationID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[conversationID], nil
}

// SetLastLink records the most recent enrollment link.
func (s *MemoryStore) SetLastLink(_ context.Context, conversationID, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[conversationID]
	sess.LastLink = link
	s.sessions[conversationID] = sess
	return nil
}

// SetLastCourse records the most recent course title.
func (s *MemoryStore) SetLastCourse(_ context.Context, conversationID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[conversationID]
	sess.LastCourse = title
	s.sessions[conversationID] = sess
	return nil
}

// Len returns the number of tracked conversations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
